package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"farmeradmin/api"
	"farmeradmin/config"
	"farmeradmin/router"
)

const PASSWORD_ENV = "FARMER_ADMIN_PASSWORD"

type cli struct {
	configFile string
	out        io.Writer
	app        *App
}

func (c *cli) load() (*App, error) {
	if c.app != nil {
		return c.app, nil
	}
	app, err := NewApp(c.configFile, c.out)
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}

// page wraps a command that belongs to an admin page behind the login gate.
func (c *cli) page(path string, run func(cmd *cobra.Command, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := c.load()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.requireLogin(path); err != nil {
			return err
		}
		return run(cmd, app, args)
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:          "farmer-admin",
		Short:        "Administration client for the farm produce platform",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&c.configFile, "config", DEFAULT_CONFIG_FILE, "Configuration file path")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.quotaCmd(),
		c.ordersCmd(),
		c.productsCmd(),
		c.customersCmd(),
		c.costsCmd(),
		c.servicesCmd(),
		c.statisticsCmd(),
		c.routesCmd(),
		c.generateConfigCmd(),
		versionCmd(),
	)
	return root
}

func (c *cli) loginCmd() *cobra.Command {
	var phone, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.load()
			if err != nil {
				return err
			}
			defer app.Close()

			if password == "" {
				password = os.Getenv(PASSWORD_ENV)
			}
			if phone == "" || password == "" {
				return fmt.Errorf("phone and password are required (password may come from %s)", PASSWORD_ENV)
			}

			if err := app.session.Login(cmd.Context(), phone, password); err != nil {
				return err
			}
			user := app.store.User()
			fmt.Fprintf(c.out, "Logged in as %s (%s)\n", user.Name, user.Tier)
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "Account phone number")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.load()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in farmer",
		RunE: c.page("/settings", func(cmd *cobra.Command, app *App, args []string) error {
			if refresh {
				if err := app.session.FetchUserInfo(cmd.Context()); err != nil {
					return err
				}
			}
			return printJSON(c.out, struct {
				User    any  `json:"user"`
				Premium bool `json:"premium"`
			}{app.store.User(), app.store.IsPremium()})
		}),
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Reload the profile from the backend first")
	return cmd
}

func (c *cli) quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show service and API call quota",
		RunE: c.page("/settings", func(cmd *cobra.Command, app *App, args []string) error {
			quota, err := app.api.Quota(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(c.out, quota)
		}),
	}
}

func addPageFlags(cmd *cobra.Command, params *api.ListParams) {
	cmd.Flags().IntVar(&params.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&params.PageSize, "page-size", 20, "Page size")
}

func (c *cli) ordersCmd() *cobra.Command {
	orders := &cobra.Command{Use: "orders", Short: "Manage orders"}

	var params api.ListParams
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: c.page("/order/list", func(cmd *cobra.Command, app *App, args []string) error {
			params.Filters = map[string]string{"status_filter": status}
			page, err := app.api.ListOrders(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(c.out, page)
		}),
	}
	addPageFlags(list, &params)
	list.Flags().StringVar(&status, "status", "", "Only orders in this status")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: c.page("/order/list", func(cmd *cobra.Command, app *App, args []string) error {
			order, err := app.api.GetOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(c.out, order)
		}),
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show order statistics",
		RunE: c.page("/order/list", func(cmd *cobra.Command, app *App, args []string) error {
			summary, err := app.api.OrderStatistics(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(c.out, summary)
		}),
	}

	orders.AddCommand(list, show, stats)
	return orders
}

func (c *cli) productsCmd() *cobra.Command {
	products := &cobra.Command{Use: "products", Short: "Manage products"}

	var params api.ListParams
	var category, keyword string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: c.page("/product/list", func(cmd *cobra.Command, app *App, args []string) error {
			params.Filters = map[string]string{"category": category, "keyword": keyword}
			page, err := app.api.ListProducts(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(c.out, page)
		}),
	}
	addPageFlags(list, &params)
	list.Flags().StringVar(&category, "category", "", "Only products in this category")
	list.Flags().StringVar(&keyword, "keyword", "", "Search keyword")

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		RunE: c.page("/product/list", func(cmd *cobra.Command, app *App, args []string) error {
			names, err := app.api.ProductCategories(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(c.out, name)
			}
			return nil
		}),
	}

	products.AddCommand(list, categories)
	return products
}

func (c *cli) customersCmd() *cobra.Command {
	customers := &cobra.Command{Use: "customers", Short: "Manage customers"}

	var params api.ListParams
	var keyword string
	list := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		RunE: c.page("/customer", func(cmd *cobra.Command, app *App, args []string) error {
			params.Filters = map[string]string{"keyword": keyword}
			page, err := app.api.ListCustomers(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(c.out, page)
		}),
	}
	addPageFlags(list, &params)
	list.Flags().StringVar(&keyword, "keyword", "", "Search keyword")

	customers.AddCommand(list)
	return customers
}

func (c *cli) costsCmd() *cobra.Command {
	costs := &cobra.Command{Use: "costs", Short: "Cost accounting"}

	overview := &cobra.Command{
		Use:   "overview",
		Short: "Show the cost overview",
		RunE: c.page("/statistics/cost", func(cmd *cobra.Command, app *App, args []string) error {
			summary, err := app.api.CostOverview(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(c.out, summary)
		}),
	}

	costs.AddCommand(overview)
	return costs
}

func (c *cli) statisticsCmd() *cobra.Command {
	statistics := &cobra.Command{Use: "statistics", Short: "Business statistics"}

	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard figures",
		RunE: c.page("/dashboard", func(cmd *cobra.Command, app *App, args []string) error {
			raw, err := app.api.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(c.out, raw)
		}),
	}

	statistics.AddCommand(dashboard)
	return statistics
}

func (c *cli) routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes [path]",
		Short: "Show the admin menu, or where a path leads",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.load()
			if err != nil {
				return err
			}
			defer app.Close()

			if len(args) == 0 {
				printMenu(c.out, app.router.Menu(), 0)
				return nil
			}

			nav, err := app.router.Navigate(args[0], app.store.IsLoggedIn(), nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "path:  %s\n", nav.Match.Path)
			fmt.Fprintf(c.out, "name:  %s\n", nav.Match.Name)
			fmt.Fprintf(c.out, "title: %s\n", nav.Title)
			if len(nav.Redirects) > 0 {
				fmt.Fprintf(c.out, "redirected via: %s\n", strings.Join(nav.Redirects, " -> "))
			}
			return nil
		},
	}
}

func printMenu(w io.Writer, items []router.MenuItem, depth int) {
	for _, item := range items {
		fmt.Fprintf(w, "%s%s  %s\n", strings.Repeat("  ", depth), item.Title, item.Path)
		printMenu(w, item.Children, depth+1)
	}
}

func (c *cli) generateConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-config",
		Short: "Write a default configuration file and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.GenerateDefaultConfig(c.configFile); err != nil {
				return fmt.Errorf("failed to generate config: %w", err)
			}
			fmt.Fprintf(c.out, "Default configuration generated at %s\n", c.configFile)
			return nil
		},
	}
}
