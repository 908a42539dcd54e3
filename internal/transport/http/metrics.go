package httptransport

import "expvar"

var (
	metricBetsTotal       = expvar.NewInt("bets_total")
	metricBetErrorsTotal  = expvar.NewInt("bet_errors_total")
	metricTablesStarted   = expvar.NewInt("blackjack_tables_started_total")
	metricTableActions    = expvar.NewInt("blackjack_actions_total")
	metricTransfersTotal  = expvar.NewInt("transfers_total")
	metricInterestApplied = expvar.NewInt("interest_runs_total")
)
