package router

const (
	LOGIN_PATH     = "/login"
	APP_TITLE      = "智农链销"
	CATCH_ALL_PATH = "/:pathMatch(.*)*"
)

// AdminRoutes is the navigation table of the admin console.
func AdminRoutes() []Route {
	return []Route{
		{Path: LOGIN_PATH, Name: "Login", Meta: Meta{Title: "登录", Hidden: true}},
		{
			Path:     "/",
			Redirect: "/dashboard",
			Children: []Route{
				{Path: "dashboard", Name: "Dashboard", Meta: Meta{Title: "工作台", Icon: "Odometer"}},
			},
		},
		{
			Path:     "/service",
			Redirect: "/service/list",
			Meta:     Meta{Title: "AI服务", Icon: "MagicStick"},
			Children: []Route{
				{Path: "generate", Name: "ServiceGenerate", Meta: Meta{Title: "生成服务", Icon: "Plus"}},
				{Path: "list", Name: "ServiceList", Meta: Meta{Title: "我的服务", Icon: "List"}},
				{Path: "detail/:id", Name: "ServiceDetail", Meta: Meta{Title: "服务详情", Hidden: true}},
			},
		},
		{
			Path:     "/product",
			Redirect: "/product/list",
			Meta:     Meta{Title: "产品管理", Icon: "Goods"},
			Children: []Route{
				{Path: "list", Name: "ProductList", Meta: Meta{Title: "产品列表", Icon: "List"}},
				{Path: "add", Name: "ProductAdd", Meta: Meta{Title: "添加产品", Icon: "Plus"}},
				{Path: "edit/:id", Name: "ProductEdit", Meta: Meta{Title: "编辑产品", Hidden: true}},
			},
		},
		{
			Path:     "/order",
			Redirect: "/order/list",
			Meta:     Meta{Title: "订单管理", Icon: "Document"},
			Children: []Route{
				{Path: "list", Name: "OrderList", Meta: Meta{Title: "订单列表", Icon: "List"}},
				{Path: "detail/:id", Name: "OrderDetail", Meta: Meta{Title: "订单详情", Hidden: true}},
			},
		},
		{
			Path:     "/statistics",
			Redirect: "/statistics/overview",
			Meta:     Meta{Title: "数据统计", Icon: "DataAnalysis"},
			Children: []Route{
				{Path: "overview", Name: "StatisticsOverview", Meta: Meta{Title: "数据概览", Icon: "PieChart"}},
				{Path: "cost", Name: "StatisticsCost", Meta: Meta{Title: "成本分析", Icon: "Money"}},
			},
		},
		{
			Path: "/customer",
			Children: []Route{
				{Path: "", Name: "CustomerList", Meta: Meta{Title: "客户管理", Icon: "User"}},
			},
		},
		{
			Path: "/traceability",
			Children: []Route{
				{Path: "", Name: "Traceability", Meta: Meta{Title: "溯源管理", Icon: "Connection"}},
			},
		},
		{
			Path: "/settings",
			Children: []Route{
				{Path: "", Name: "Settings", Meta: Meta{Title: "系统设置", Icon: "Setting"}},
			},
		},
		{
			Path: "/help",
			Children: []Route{
				{Path: "", Name: "Help", Meta: Meta{Title: "帮助中心", Icon: "QuestionFilled"}},
			},
		},
		{Path: CATCH_ALL_PATH, Name: "NotFound", Meta: Meta{Title: "页面不存在", Hidden: true}},
	}
}
