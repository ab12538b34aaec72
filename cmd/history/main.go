// Command history prints a client's invoice history from a running ledger server.
// It drives the same view models a desktop front end would bind to.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/application/history"
	"github.com/invoicebook/backend/internal/infrastructure/config"
	"github.com/invoicebook/backend/internal/infrastructure/logger"
	"github.com/invoicebook/backend/internal/interfaces/http/apiclient"
	"go.uber.org/zap"
)

type options struct {
	clientID  uuid.UUID
	invoiceID uuid.UUID
	pages     int
}

func main() {
	var (
		clientArg  string
		invoiceArg string
		pages      int
		logLevel   string
	)

	flag.StringVar(&clientArg, "client", "", "Client ID (required)")
	flag.StringVar(&invoiceArg, "invoice", "", "Invoice to show in detail (default: latest)")
	flag.IntVar(&pages, "pages", 1, "Number of history pages to reveal")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	opts, err := parseOptions(clientArg, invoiceArg, pages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, opts, os.Stdout); err != nil {
		log.Fatal("History failed", zap.Error(err))
	}
}

func parseOptions(clientArg, invoiceArg string, pages int) (options, error) {
	var opts options
	if clientArg == "" {
		return opts, fmt.Errorf("-client is required")
	}
	id, err := uuid.Parse(clientArg)
	if err != nil {
		return opts, fmt.Errorf("invalid -client %q: %w", clientArg, err)
	}
	opts.clientID = id

	if invoiceArg != "" {
		inv, err := uuid.Parse(invoiceArg)
		if err != nil {
			return opts, fmt.Errorf("invalid -invoice %q: %w", invoiceArg, err)
		}
		opts.invoiceID = inv
	}

	if pages < 1 {
		return opts, fmt.Errorf("-pages must be at least 1")
	}
	opts.pages = pages
	return opts, nil
}

// run binds the history to opts.clientID through the API and writes the table,
// followed by the detail of the selected invoice.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger, opts options, out io.Writer) error {
	client, err := apiclient.New(cfg.APIClient, apiclient.WithLogger(log))
	if err != nil {
		return err
	}
	historyCfg, err := history.ConfigFrom(cfg.History)
	if err != nil {
		return err
	}

	view := history.NewHistoryViewModel(client, historyCfg, log)
	defer view.Close()
	detail := history.NewInvoiceDetailViewModel(client, historyCfg.Formatter, log)
	detail.Follow(ctx, view)

	if err := view.Bind(ctx, opts.clientID); err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	for i := 1; i < opts.pages; i++ {
		view.RevealMore()
	}
	if opts.invoiceID != uuid.Nil {
		if err := view.Select(opts.invoiceID); err != nil {
			return fmt.Errorf("select invoice %s: %w", opts.invoiceID, err)
		}
	}
	detail.Wait()

	writeHistory(out, view)
	if view.SelectedID() == uuid.Nil {
		return nil
	}
	if err := detail.Err(); err != nil {
		return fmt.Errorf("load invoice detail: %w", err)
	}
	writeDetail(out, historyCfg.Formatter, detail.Current())
	return nil
}

func writeHistory(out io.Writer, view *history.HistoryViewModel) {
	rows := view.Rows()
	fmt.Fprintf(out, "Showing %d of %d invoices\n", len(rows), view.Total())
	if len(rows) == 0 {
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNO\tDATE\tTOTAL\tPAYMENT\tBALANCE\tNOTE\t")
	for _, r := range rows {
		mark := " "
		if r.Selected {
			mark = ">"
		}
		if r.Editable {
			mark += "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t\n",
			mark, r.No, r.Date, r.TotalText, r.PaymentText, r.BalanceText, deref(r.Note))
	}
	_ = tw.Flush()
}

func writeDetail(out io.Writer, f *history.Formatter, inv *history.InvoiceView) {
	if inv == nil {
		return
	}
	fmt.Fprintf(out, "\nInvoice #%d  %s\n", inv.No, inv.Date)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tSPEC\tQTY\tPRICE\tAMOUNT\t")
	for _, it := range inv.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t\n", it.Name, deref(it.Spec), it.Quantity, it.PriceText, it.LineTotalText)
	}
	_ = tw.Flush()

	fmt.Fprintf(out, "Subtotal %s  Previous %s  Total %s  Payment %s  Balance %s\n",
		f.Amount(inv.Subtotal), f.Amount(inv.PrevBalance), f.Amount(inv.Total), f.Amount(inv.Payment), f.Amount(inv.Balance))
	if inv.Note != nil {
		fmt.Fprintf(out, "Note: %s\n", *inv.Note)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
