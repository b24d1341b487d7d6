// Command demo walks a fresh ledger through a short scripted session and
// prints every outcome to stdout.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/bank-ledger/internal/events/memory"
	"github.com/sheikh-saqib/bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger/internal/models"
	"github.com/sheikh-saqib/bank-ledger/internal/models/events"
	memstore "github.com/sheikh-saqib/bank-ledger/internal/storage/memory"
)

func main() {
	ctx := context.Background()
	publisher := memory.NewPublisher()
	bank := ledger.NewLedger(memstore.NewMemoryAccountStore(), ledger.WithPublisher(publisher))

	report := func(err error) {
		if err != nil {
			fmt.Println("Error:", err)
		}
	}
	open := func(name string, deposit int64) {
		id, err := bank.CreateAccount(name, decimal.NewFromInt(deposit))
		if err != nil {
			report(err)
			return
		}
		fmt.Printf("Opened account %d for %s\n", id, name)
	}

	open("John Doe", -500)
	report(bank.Transfer(ctx, 1, 2, decimal.NewFromInt(100)))

	open("Alice Wonderland", 1000)
	open("Charlie Chaplin", 0)
	report(bank.Transfer(ctx, 1, 2, decimal.NewFromInt(1500)))

	open("Bob Builder", 500)
	report(bank.Transfer(ctx, 3, 2, decimal.NewFromInt(200)))

	for _, id := range []int64{1, 2, 3} {
		summary, err := bank.Summary(id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Printf("\nAccount %d:\n%s\n", id, summary)
	}

	fmt.Println("\nPublished events:")
	for _, p := range publisher.Events() {
		if ev, ok := p.Event.(events.TransactionCompleted); ok {
			fmt.Printf("  %s %s %d -> %d amount %s\n", p.Topic, ev.Type, ev.FromAccount, ev.ToAccount, models.FormatAmount(ev.Amount))
		}
	}
}
