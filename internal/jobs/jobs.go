package jobs

// Table is the static roster of recurring daily shop tasks plus the
// description text for each task tag. It is read-only at runtime; imports
// with missing keys fall back to the built-in defaults.
type Table struct {
	jobs         map[string]map[string][]string
	descriptions map[string]string
}

var defaultDescriptions = map[string]string{
	"open_shop":       "Unlock, disarm the alarm, bring in deliveries left at the door.",
	"prep_counter":    "Lay out the display counter: trays, labels, garnish.",
	"sausage_making":  "Run the day's sausage batch before the lunch rush.",
	"mince_grinding":  "Grind and tray up mince for the counter.",
	"restock_display": "Top up the counter from the cold room as it sells down.",
	"process_orders":  "Work through customer orders due today and tomorrow.",
	"deliveries":      "Pack and dispatch local deliveries.",
	"clean_equipment": "Strip, wash and sanitise the saws, grinders and blocks.",
	"close_shop":      "Clear the counter into the cold room, mop, set the alarm.",
	"cash_up":         "Count the till and reconcile against the day's sales.",
	"stock_check":     "Walk the cold room and freezer, note anything running low.",
}

var defaultJobs = map[string]map[string][]string{
	"Monday": {
		"morning":   {"open_shop", "prep_counter", "mince_grinding"},
		"afternoon": {"restock_display", "process_orders"},
		"evening":   {"clean_equipment", "close_shop", "cash_up"},
	},
	"Tuesday": {
		"morning":   {"open_shop", "prep_counter", "sausage_making"},
		"afternoon": {"restock_display", "process_orders"},
		"evening":   {"clean_equipment", "close_shop", "cash_up"},
	},
	"Wednesday": {
		"morning":   {"open_shop", "prep_counter", "mince_grinding"},
		"afternoon": {"restock_display", "process_orders", "stock_check"},
		"evening":   {"clean_equipment", "close_shop", "cash_up"},
	},
	"Thursday": {
		"morning":   {"open_shop", "prep_counter", "sausage_making"},
		"afternoon": {"restock_display", "process_orders", "deliveries"},
		"evening":   {"clean_equipment", "close_shop", "cash_up"},
	},
	"Friday": {
		"morning":   {"open_shop", "prep_counter", "sausage_making", "mince_grinding"},
		"afternoon": {"restock_display", "process_orders", "deliveries"},
		"evening":   {"clean_equipment", "close_shop", "cash_up"},
	},
	"Saturday": {
		"morning":   {"open_shop", "prep_counter"},
		"afternoon": {"restock_display", "process_orders"},
		"evening":   {"clean_equipment", "close_shop", "cash_up"},
	},
	"Sunday": {
		"morning":   {"stock_check"},
		"afternoon": {},
		"evening":   {},
	},
}

func Defaults() *Table {
	return &Table{
		jobs:         copyJobs(defaultJobs),
		descriptions: copyDescriptions(defaultDescriptions),
	}
}

// Jobs returns the day -> period -> task-tag table.
func (t *Table) Jobs() map[string]map[string][]string {
	return copyJobs(t.jobs)
}

// Descriptions returns the task-tag -> description map.
func (t *Table) Descriptions() map[string]string {
	return copyDescriptions(t.descriptions)
}

// Replace swaps in an imported table; nil or empty inputs keep the defaults.
func (t *Table) Replace(jobs map[string]map[string][]string, descriptions map[string]string) {
	if len(jobs) > 0 {
		t.jobs = copyJobs(jobs)
	} else {
		t.jobs = copyJobs(defaultJobs)
	}
	if len(descriptions) > 0 {
		t.descriptions = copyDescriptions(descriptions)
	} else {
		t.descriptions = copyDescriptions(defaultDescriptions)
	}
}

func copyJobs(src map[string]map[string][]string) map[string]map[string][]string {
	out := make(map[string]map[string][]string, len(src))
	for day, periods := range src {
		out[day] = make(map[string][]string, len(periods))
		for period, tags := range periods {
			out[day][period] = append([]string(nil), tags...)
		}
	}
	return out
}

func copyDescriptions(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for tag, desc := range src {
		out[tag] = desc
	}
	return out
}
