package routing

// TargetInfo is the queue metadata the transfer-execution collaborator uses
// to map a target class to a real destination. A known account owner may
// override the generic AE queue downstream.
type TargetInfo struct {
	Name        string `json:"name"`
	Queue       string `json:"queue"`
	Description string `json:"description"`
}

var targetDirectory = map[Target]TargetInfo{
	TargetAE: {
		Name:        "Account Executive Queue",
		Queue:       "ae-inbound",
		Description: "Qualified SQL leads",
	},
	TargetBDR: {
		Name:        "Business Development Rep Queue",
		Queue:       "bdr-inbound",
		Description: "Urgent self-service leads and complex situations",
	},
	TargetSupport: {
		Name:        "Customer Support",
		Queue:       "support-inbound",
		Description: "Existing customer issues and technical support",
	},
	TargetBilling: {
		Name:        "Billing Support",
		Queue:       "billing-inbound",
		Description: "Billing questions and account management",
	},
}

// Lookup returns queue metadata for a target class.
func Lookup(t Target) (TargetInfo, bool) {
	info, ok := targetDirectory[t]
	return info, ok
}
