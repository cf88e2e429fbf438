package i18n

import "strings"

// Locale identifies a message catalog. The reference deployment serves
// Chinese and English; Chinese is the house default.
type Locale string

const (
	ZH Locale = "zh"
	EN Locale = "en"
)

// Match maps a Telegram language_code to a supported locale. Empty codes
// get the house default, unknown codes fall back to English.
func Match(languageCode string) Locale {
	code := strings.ToLower(strings.TrimSpace(languageCode))
	if code == "" {
		return ZH
	}
	if code == "zh" || strings.HasPrefix(code, "zh-") || strings.HasPrefix(code, "zh_") {
		return ZH
	}
	return EN
}

// T looks up a catalog string. Missing keys return the key itself so a
// rendering gap is visible instead of silent.
func T(loc Locale, key string) string {
	if m, ok := catalogs[loc]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := catalogs[EN][key]; ok {
		return s
	}
	return key
}

var catalogs = map[Locale]map[string]string{
	ZH: {
		"stats.title":           "📊 销售统计",
		"stats.bot_status":      "机器人状态",
		"stats.status_active":   "正常",
		"stats.status_inactive": "已停用",
		"stats.running":         "运行中",
		"stats.stopped":         "离线",
		"stats.margin_usdt":     "USDT 加价率",
		"stats.margin_rmb":      "人民币加价率",
		"stats.profit_total":    "累计利润",
		"stats.profit_24h":      "24小时利润",
		"stats.profit_7d":       "7天利润",
		"stats.users_total":     "用户总数",
		"stats.users_new_24h":   "24小时新增",
		"stats.orders_total":    "订单总数",
		"stats.orders_done":     "已完成",
		"stats.completion_rate": "完成率",
		"stats.channels":        "渠道明细",
		"stats.computed_at":     "统计时间",
		"stats.btn_refresh":     "🔄 刷新",
		"stats.btn_back":        "🔙 返回",

		"channel.usdt-trc20": "USDT-TRC20",
		"channel.alipay":     "支付宝",
		"channel.wechat":     "微信",

		"home.title":        "🤖 代理面板",
		"home.welcome":      "欢迎语预览",
		"home.contacts":     "联系方式",
		"home.btn_stats":    "📊 销售统计",
		"home.status_line":  "状态",
		"home.no_welcome":   "（未设置欢迎语）",

		"alert.no_agent":  "未找到该代理账户",
		"alert.transient": "数据暂时不可用，请稍后重试",
		"alert.forbidden": "无权查看该面板",
	},
	EN: {
		"stats.title":           "📊 Sales Statistics",
		"stats.bot_status":      "Bot status",
		"stats.status_active":   "active",
		"stats.status_inactive": "inactive",
		"stats.running":         "running",
		"stats.stopped":         "offline",
		"stats.margin_usdt":     "USDT markup",
		"stats.margin_rmb":      "RMB markup",
		"stats.profit_total":    "Total profit",
		"stats.profit_24h":      "Profit 24h",
		"stats.profit_7d":       "Profit 7d",
		"stats.users_total":     "Total users",
		"stats.users_new_24h":   "New in 24h",
		"stats.orders_total":    "Total orders",
		"stats.orders_done":     "Completed",
		"stats.completion_rate": "Completion rate",
		"stats.channels":        "Channels",
		"stats.computed_at":     "Computed at",
		"stats.btn_refresh":     "🔄 Refresh",
		"stats.btn_back":        "🔙 Back",

		"channel.usdt-trc20": "USDT-TRC20",
		"channel.alipay":     "Alipay",
		"channel.wechat":     "WeChat",

		"home.title":        "🤖 Agent Panel",
		"home.welcome":      "Welcome preview",
		"home.contacts":     "Contacts",
		"home.btn_stats":    "📊 Sales Statistics",
		"home.status_line":  "Status",
		"home.no_welcome":   "(no welcome message set)",

		"alert.no_agent":  "Agent account not found",
		"alert.transient": "Data temporarily unavailable, please retry",
		"alert.forbidden": "You are not allowed to view this panel",
	},
}
