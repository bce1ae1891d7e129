package model

// IncomeRange is one of the questionnaire's income options (Naira per year).
type IncomeRange struct {
	Label string `json:"label"`
	Min   int64  `json:"min"`
	Max   int64  `json:"max"`
}

var WorkTypes = []string{WorkTypeSalaryEarner, WorkTypeFreelancer, WorkTypeSmallBusiness}

var IncomeRanges = []IncomeRange{
	{Label: "Below ₦800,000", Min: 0, Max: 800000},
	{Label: "₦800,001 - ₦1,500,000", Min: 800001, Max: 1500000},
	{Label: "₦1,500,001 - ₦3,000,000", Min: 1500001, Max: 3000000},
	{Label: "₦3,000,001 - ₦12,000,000", Min: 3000001, Max: 12000000},
	{Label: "₦12,000,001 - ₦25,000,000", Min: 12000001, Max: 25000000},
	{Label: "Above ₦25,000,000", Min: 25000001, Max: 100000000},
}

// States is the fixed set of regions a profile may name.
var States = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue", "Borno",
	"Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu", "FCT Abuja", "Gombe",
	"Imo", "Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi", "Kogi", "Kwara",
	"Lagos", "Nasarawa", "Niger", "Ogun", "Ondo", "Osun", "Oyo", "Plateau",
	"Rivers", "Sokoto", "Taraba", "Yobe", "Zamfara",
}

func IsWorkType(s string) bool {
	return contains(WorkTypes, s)
}

func IsState(s string) bool {
	return contains(States, s)
}

func IsPriority(s string) bool {
	return s == PriorityHigh || s == PriorityMedium || s == PriorityLow
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
