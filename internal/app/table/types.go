package table

type StartRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Bet       string `json:"bet"`
	// Biased applies the account's luck perk to the shuffle.
	Biased bool `json:"biased"`
}

type ActionRequest struct {
	AccountID string `json:"account_id"`
	Action    string `json:"action"`
}
