package lexicon

// Built-in lexicons. These are configuration, not logic: deployments override
// or extend them with a JSON/YAML file via LEXICON_PATH.

var defaultProblems = map[string][]string{
	"battery": {
		"battery dies", "battery drains", "battery drain", "poor battery",
		"bad battery", "dies fast", "drains fast",
	},
	"performance": {
		"slow", "lag", "laggy", "freezes", "freeze", "crash", "crashes",
		"crashed", "not responding", "hangs",
	},
	"reliability": {
		"broken", "not working", "doesn't work", "does not work",
		"stopped working", "defective", "faulty", "bug", "bugs",
	},
	"delivery": {
		"late delivery", "arrived late", "delayed", "never arrived",
		"wrong order", "missing item", "lost package",
	},
	"quality": {
		"poor quality", "bad quality", "low quality", "cheap material",
		"damaged", "flimsy", "fell apart",
	},
	"support": {
		"no response", "no reply", "unhelpful", "rude", "poor service",
		"terrible service", "waste of time", "ignored",
	},
	"usability": {
		"confusing", "hard to use", "difficult to use", "complicated",
		"frustrating", "unusable",
	},
	"pricing": {
		"overpriced", "too expensive", "hidden fees", "hidden charges",
		"rip off", "ripoff",
	},
}

var defaultSuggestions = map[string][]string{
	"charging": {
		"quick charging", "fast charging", "wireless charging",
		"better charging", "charging option",
	},
	"features": {
		"please add", "should add", "add support", "add an option",
		"add a feature", "would be great if", "wish it had",
	},
	"performance": {
		"make it faster", "speed up", "improve performance", "optimize",
		"reduce loading",
	},
	"pricing": {
		"lower the price", "reduce the price", "cheaper", "add a discount",
		"price match",
	},
	"search": {
		"improve search", "better search", "add filters", "add a filter",
		"sort by",
	},
	"interface": {
		"improve the ui", "improve the interface", "dark mode", "redesign",
		"simplify",
	},
	"support": {
		"faster response", "live chat", "improve support", "better support",
	},
	"delivery": {
		"faster delivery", "free shipping", "improve delivery",
		"track my order", "tracking",
	},
}

var defaultMentions = map[string][]string{
	"app":      {"app", "application", "mobile app"},
	"website":  {"website", "site", "web page"},
	"delivery": {"delivery", "courier", "rider", "driver"},
	"shipping": {"shipping", "shipment", "package", "parcel"},
	"order":    {"order", "checkout", "cart"},
	"payment":  {"payment", "refund", "billing"},
	"price":    {"price", "pricing", "cost", "discount", "expensive", "cheap"},
	"quality":  {"quality", "material", "build quality"},
	"service":  {"service", "support", "staff", "customer service"},
	"product":  {"product", "item"},
	"battery":  {"battery", "battery life"},
	"search":   {"search", "filter", "filters"},
}
