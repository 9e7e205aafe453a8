package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	appinvoice "github.com/timebill/backend/internal/application/invoice"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// run dispatches one command and writes its result as JSON to out
func (a *app) run(ctx context.Context, args []string, out io.Writer) error {
	command, rest := args[0], args[1:]

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	tenant := fs.String("tenant", "", "Tenant ID")

	var exec func() (any, error)

	switch command {
	case "create", "preview":
		req := bindCreateFlags(fs)
		exec = func() (any, error) {
			r, err := req.build()
			if err != nil {
				return nil, err
			}
			tenantID, err := parseUUID("tenant", *tenant)
			if err != nil {
				return nil, err
			}
			if command == "preview" {
				return a.service.PreviewInvoice(ctx, tenantID, r)
			}
			return a.service.CreateInvoice(ctx, tenantID, r)
		}
	case "status":
		id := fs.String("id", "", "Invoice ID")
		status := fs.String("status", "", "Target status: new, pending, paid or canceled")
		paid := fs.String("payment-date", "", "Payment date (YYYY-MM-DD), defaults to today for paid")
		exec = func() (any, error) {
			tenantID, invoiceID, err := parseTenantAndID(*tenant, *id)
			if err != nil {
				return nil, err
			}
			paymentDate, err := parseDate("payment-date", *paid)
			if err != nil {
				return nil, err
			}
			return a.service.ChangeStatus(ctx, tenantID, invoiceID, appinvoice.ChangeStatusRequest{
				Status:      *status,
				PaymentDate: paymentDate,
			})
		}
	case "show":
		id := fs.String("id", "", "Invoice ID")
		exec = func() (any, error) {
			tenantID, invoiceID, err := parseTenantAndID(*tenant, *id)
			if err != nil {
				return nil, err
			}
			return a.service.GetInvoice(ctx, tenantID, invoiceID)
		}
	case "list":
		var filter appinvoice.ListInvoicesFilter
		customer := fs.String("customer", "", "Only invoices of this customer")
		fs.IntVar(&filter.Page, "page", 1, "Page number")
		fs.IntVar(&filter.PageSize, "page-size", 20, "Invoices per page")
		fs.StringVar(&filter.OrderBy, "order-by", "created_at", "created_at, due_date, invoice_number or total")
		fs.StringVar(&filter.OrderDir, "order-dir", "desc", "asc or desc")
		fs.StringVar(&filter.Status, "status", "", "Only invoices in this status")
		exec = func() (any, error) {
			tenantID, err := parseUUID("tenant", *tenant)
			if err != nil {
				return nil, err
			}
			if filter.CustomerID, err = parseOptionalUUID("customer", *customer); err != nil {
				return nil, err
			}
			return a.service.ListInvoices(ctx, tenantID, filter)
		}
	case "overdue":
		exec = func() (any, error) {
			tenantID, err := parseUUID("tenant", *tenant)
			if err != nil {
				return nil, err
			}
			a.metrics.CollectOverdue(ctx, time.Now())
			return a.service.ListOverdue(ctx, tenantID)
		}
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}

	if err := fs.Parse(rest); err != nil {
		return err
	}
	result, err := exec()
	if err != nil {
		return err
	}

	a.logger.Debug("Command finished", zap.String("command", command))
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// createFlags collects the entry selection of create and preview
type createFlags struct {
	customer, template, user     *string
	date, begin, end             *string
	project, activity, entryUser *string
	comment                      *string
	includeExported              *bool
}

func bindCreateFlags(fs *flag.FlagSet) *createFlags {
	return &createFlags{
		customer:        fs.String("customer", "", "Customer to bill"),
		template:        fs.String("template", "", "Invoice template ID"),
		user:            fs.String("user", "", "User issuing the invoice"),
		date:            fs.String("date", "", "Invoice date (YYYY-MM-DD), defaults to today"),
		begin:           fs.String("begin", "", "First entry start date (YYYY-MM-DD)"),
		end:             fs.String("end", "", "Last entry start date (YYYY-MM-DD), inclusive"),
		project:         fs.String("project", "", "Only entries of this project"),
		activity:        fs.String("activity", "", "Only entries of this activity"),
		entryUser:       fs.String("entry-user", "", "Only entries recorded by this user"),
		comment:         fs.String("comment", "", "Invoice comment"),
		includeExported: fs.Bool("include-exported", false, "Bill entries already on an invoice"),
	}
}

func (f *createFlags) build() (appinvoice.CreateInvoiceRequest, error) {
	var (
		req appinvoice.CreateInvoiceRequest
		err error
	)
	if req.CustomerID, err = parseUUID("customer", *f.customer); err != nil {
		return req, err
	}
	if req.TemplateID, err = parseUUID("template", *f.template); err != nil {
		return req, err
	}
	if req.UserID, err = parseUUID("user", *f.user); err != nil {
		return req, err
	}
	if req.InvoiceDate, err = parseDate("date", *f.date); err != nil {
		return req, err
	}
	if req.Begin, err = parseDate("begin", *f.begin); err != nil {
		return req, err
	}
	if req.End, err = parseDate("end", *f.end); err != nil {
		return req, err
	}
	if req.End != nil {
		endOfDay := req.End.Add(24*time.Hour - time.Second)
		req.End = &endOfDay
	}
	if req.ProjectID, err = parseOptionalUUID("project", *f.project); err != nil {
		return req, err
	}
	if req.ActivityID, err = parseOptionalUUID("activity", *f.activity); err != nil {
		return req, err
	}
	if req.EntryUserID, err = parseOptionalUUID("entry-user", *f.entryUser); err != nil {
		return req, err
	}
	req.Comment = *f.comment
	req.IncludeExported = *f.includeExported
	return req, nil
}

func parseTenantAndID(tenant, id string) (uuid.UUID, uuid.UUID, error) {
	tenantID, err := parseUUID("tenant", tenant)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	invoiceID, err := parseUUID("id", id)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return tenantID, invoiceID, nil
}

func parseUUID(flagName, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("-%s is required", flagName)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("-%s: %w", flagName, err)
	}
	return id, nil
}

func parseOptionalUUID(flagName, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := parseUUID(flagName, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDate(flagName, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("-%s must be YYYY-MM-DD: %w", flagName, err)
	}
	return &t, nil
}
