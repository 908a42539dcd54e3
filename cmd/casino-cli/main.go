package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"creditjack/internal/app/account"
	"creditjack/internal/app/table"
	"creditjack/internal/config"
	"creditjack/internal/game/viewmodel"
	"creditjack/internal/ledger"
	"creditjack/internal/logging"
	"creditjack/internal/store"

	"github.com/joho/godotenv"
	"github.com/muesli/cancelreader"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const playerID = "local"

func main() {
	name := flag.String("name", "player", "display name")
	defaultBet := flag.String("bet", "10", "default bet when the prompt is left blank")
	biased := flag.Bool("biased", false, "let account luck steer aces during the shuffle")
	flag.Parse()

	_ = godotenv.Load()
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	if logCfg.File == "" {
		logCfg.Level = "error"
	}
	if err := logging.Init(logCfg); err != nil {
		panic(err)
	}
	defer logging.Close()
	games, err := config.LoadGames(os.Getenv("GAMES_CONFIG_PATH"))
	if err != nil {
		pterm.Error.Printfln("load games config: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.NewMemory()
	led := ledger.New(st)
	accounts := account.NewService(st, led, games)
	tables := table.NewCoordinator(accounts, led, games)
	tables.StartJanitor(ctx)

	_ = pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Black", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("jack", pterm.FgRed.ToStyle()),
	).Render()

	stdin, err := cancelreader.NewReader(os.Stdin)
	if err != nil {
		pterm.Error.Printfln("open stdin: %v", err)
		return
	}
	defer stdin.Close()
	// Unblocks the reader goroutine on the way out.
	defer stdin.Cancel()
	lines := readLines(ctx, stdin)
	for {
		acct, err := accounts.Balance(ctx, playerID, *name)
		if err != nil {
			pterm.Error.Printfln("load account: %v", err)
			return
		}
		pterm.Info.Printfln("Balance: %s  Bank: %s", acct.BalanceDisplay, acct.BankDisplay)
		pterm.Print(pterm.Sprintf("Bet (blank for %s, q to quit): ", *defaultBet))
		line, ok := <-lines
		if !ok || line == "q" {
			pterm.Println()
			return
		}
		if line == "" {
			line = *defaultBet
		}

		view, err := tables.Start(ctx, table.StartRequest{AccountID: playerID, Name: *name, Bet: line, Biased: *biased})
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		view = playRound(ctx, tables, view, lines, games.TurnTimeout)
		if view == nil {
			return
		}
	}
}

// playRound prompts until the table resolves. It returns nil when stdin
// closes mid-round.
func playRound(ctx context.Context, tables *table.Coordinator, view *viewmodel.TableView, lines <-chan string, timeout time.Duration) *viewmodel.TableView {
	for {
		render(view)
		if view.State == "resolved" {
			return view
		}
		pterm.Print(pterm.Sprintf("(h)it or (s)tand [%s]: ", timeout))
		var action string
		select {
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch line {
			case "h", "hit":
				action = "hit"
			case "s", "stand":
				action = "stand"
			default:
				pterm.Warning.Println("type h or s")
				continue
			}
		case <-time.After(timeout):
			pterm.Println()
			// Past the deadline any action settles as a timeout.
			action = "stand"
		}
		next, err := tables.Act(ctx, view.TableID, table.ActionRequest{AccountID: playerID, Action: action})
		if err != nil {
			if !errors.Is(err, table.ErrTableClosed) {
				pterm.Error.Println(err.Error())
			}
			if latest, gerr := tables.Get(view.TableID, playerID); gerr == nil {
				next = latest
			} else {
				return view
			}
		}
		view = next
	}
}

func render(view *viewmodel.TableView) {
	box := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	player := pterm.Sprintfln("%s  (%d)", view.Player.Cards, value(view.Player.Value))
	dealer := pterm.Sprintfln("%s", view.Dealer.Cards)
	if view.Dealer.Value != nil {
		dealer = pterm.Sprintfln("%s  (%d)", view.Dealer.Cards, *view.Dealer.Value)
	}
	panels := pterm.Panels{{
		{Data: box.WithTitle(pterm.LightCyan("|YOU|")).WithTitleTopCenter().Sprint(player)},
		{Data: box.WithTitle(pterm.LightYellow("|DEALER|")).WithTitleTopCenter().Sprint(dealer)},
	}}
	_ = pterm.DefaultPanel.WithPanels(panels).Render()
	if view.State != "resolved" {
		return
	}
	switch view.Outcome {
	case "win":
		pterm.Success.Printfln("%s Payout %s", view.Message, view.Payout)
	case "loss":
		pterm.Error.Println(view.Message)
	default:
		pterm.Info.Printfln("%s Returned %s", view.Message, view.Payout)
	}
}

func value(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func readLines(ctx context.Context, r cancelreader.CancelReader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case out <- strings.ToLower(strings.TrimSpace(sc.Text())):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
