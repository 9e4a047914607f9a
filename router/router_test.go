package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	r := Default()

	tests := []struct {
		location string
		name     string
		path     string
		params   map[string]string
	}{
		{location: "/", name: "Dashboard", path: "/dashboard", params: map[string]string{}},
		{location: "/dashboard", name: "Dashboard", path: "/dashboard", params: map[string]string{}},
		{location: "/service", name: "ServiceList", path: "/service/list", params: map[string]string{}},
		{location: "/service/detail/svc-42", name: "ServiceDetail", path: "/service/detail/svc-42", params: map[string]string{"id": "svc-42"}},
		{location: "/product/edit/p%201", name: "ProductEdit", path: "/product/edit/p%201", params: map[string]string{"id": "p 1"}},
		{location: "/order", name: "OrderList", path: "/order/list", params: map[string]string{}},
		{location: "/order/detail/o9/", name: "OrderDetail", path: "/order/detail/o9", params: map[string]string{"id": "o9"}},
		{location: "/statistics", name: "StatisticsOverview", path: "/statistics/overview", params: map[string]string{}},
		{location: "/statistics/cost", name: "StatisticsCost", path: "/statistics/cost", params: map[string]string{}},
		{location: "/customer", name: "CustomerList", path: "/customer", params: map[string]string{}},
		{location: "/traceability", name: "Traceability", path: "/traceability", params: map[string]string{}},
		{location: "/settings", name: "Settings", path: "/settings", params: map[string]string{}},
		{location: "/help", name: "Help", path: "/help", params: map[string]string{}},
		{location: "/login", name: "Login", path: "/login", params: map[string]string{}},
		{location: "/no/such/page", name: "NotFound", path: "/no/such/page", params: map[string]string{"pathMatch": "no/such/page"}},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			m, err := r.Resolve(tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.name, m.Name)
			assert.Equal(t, tt.params, m.Params)
			if tt.name != "ProductEdit" {
				assert.Equal(t, tt.path, m.Path)
			}
		})
	}
}

func TestResolveKeepsQuery(t *testing.T) {
	m, err := Default().Resolve("/order/list?status=paid&page=2")
	require.NoError(t, err)
	assert.Equal(t, "OrderList", m.Name)
	assert.Equal(t, "paid", m.Query.Get("status"))
}

func TestResolveChainAndMeta(t *testing.T) {
	m, err := Default().Resolve("/service/generate")
	require.NoError(t, err)
	require.Len(t, m.Chain, 2)
	assert.Equal(t, "/service", m.Chain[0].Path)
	assert.Equal(t, "生成服务", m.Meta.Title)
	assert.Equal(t, "Plus", m.Meta.Icon)
	assert.False(t, m.Meta.Hidden)
}

func TestRedirectLoop(t *testing.T) {
	r := New([]Route{
		{Path: "/a", Redirect: "/b"},
		{Path: "/b", Redirect: "/a"},
	})
	_, err := r.Resolve("/a")
	assert.ErrorIs(t, err, ErrRedirectLoop)
}

func TestNoMatchWithoutCatchAll(t *testing.T) {
	r := New([]Route{{Path: "/only", Name: "Only"}})
	_, err := r.Resolve("/other")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "智农链销", Title(nil))
	assert.Equal(t, "智农链销", Title(&Match{}))
	assert.Equal(t, "订单列表 - 智农链销", Title(&Match{Meta: Meta{Title: "订单列表"}}))
}

func TestNavigateGuard(t *testing.T) {
	r := Default()

	tests := []struct {
		name          string
		location      string
		authenticated bool
		wantName      string
		wantTitle     string
		wantRedirects []string
	}{
		{name: "login always allowed", location: "/login", authenticated: false, wantName: "Login", wantTitle: "登录 - 智农链销"},
		{name: "login allowed when signed in", location: "/login", authenticated: true, wantName: "Login", wantTitle: "登录 - 智农链销"},
		{name: "anonymous is sent to login", location: "/order/list", authenticated: false, wantName: "Login", wantTitle: "登录 - 智农链销", wantRedirects: []string{"/login"}},
		{name: "anonymous not found goes to login", location: "/missing", authenticated: false, wantName: "Login", wantTitle: "登录 - 智农链销", wantRedirects: []string{"/login"}},
		{name: "signed in passes", location: "/order/detail/o1", authenticated: true, wantName: "OrderDetail", wantTitle: "订单详情 - 智农链销"},
		{name: "signed in root", location: "/", authenticated: true, wantName: "Dashboard", wantTitle: "工作台 - 智农链销"},
		{name: "signed in not found", location: "/missing", authenticated: true, wantName: "NotFound", wantTitle: "页面不存在 - 智农链销"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav, err := r.Navigate(tt.location, tt.authenticated, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.location, nav.Requested)
			assert.Equal(t, tt.wantName, nav.Match.Name)
			assert.Equal(t, tt.wantTitle, nav.Title)
			assert.Equal(t, tt.wantRedirects, nav.Redirects)
		})
	}
}

func TestNavigateCustomGuardLoop(t *testing.T) {
	bounce := func(to *Match, authenticated bool) string {
		if to.Path == "/dashboard" {
			return "/help"
		}
		return "/dashboard"
	}
	_, err := Default().Navigate("/help", true, bounce)
	assert.ErrorIs(t, err, ErrRedirectLoop)
}

func TestMenu(t *testing.T) {
	menu := Default().Menu()

	titles := make([]string, 0, len(menu))
	for _, item := range menu {
		titles = append(titles, item.Title)
	}
	assert.Equal(t, []string{"工作台", "AI服务", "产品管理", "订单管理", "数据统计", "客户管理", "溯源管理", "系统设置", "帮助中心"}, titles)

	assert.Equal(t, "/dashboard", menu[0].Path)
	assert.Empty(t, menu[0].Children)

	service := menu[1]
	require.Len(t, service.Children, 2, "detail pages are hidden")
	assert.Equal(t, "/service/generate", service.Children[0].Path)
	assert.Equal(t, "/service/list", service.Children[1].Path)

	assert.Equal(t, "/customer", menu[5].Path)
	assert.Equal(t, "User", menu[5].Icon)
}
