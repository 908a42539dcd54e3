package arcade

type CoinFlipRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Bet       string `json:"bet"`
	Choice    string `json:"choice"`
}

type GuessRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Bet       string `json:"bet"`
	Guess     string `json:"guess"`
}

type PlayResponse struct {
	Game           string `json:"game"`
	GameID         string `json:"game_id"`
	Outcome        string `json:"outcome"`
	Message        string `json:"message"`
	Bet            string `json:"bet"`
	Payout         string `json:"payout"`
	Result         string `json:"result"`
	Multiplier     int64  `json:"multiplier,omitempty"`
	Balance        string `json:"balance"`
	BalanceDisplay string `json:"balance_display"`
}
