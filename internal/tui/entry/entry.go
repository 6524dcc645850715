// ABOUTME: Data entry forms for recording procurement, sales and credit sales
// ABOUTME: Procurement runs the advisory checks before anything is sent

package entry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/KayembaIsaacFrank/gcdl/internal/advisory"
	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/icons"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/theme"
)

// Kind selects the form.
type Kind int

const (
	KindProcurement Kind = iota
	KindSale
	KindCreditSale
)

func (k Kind) String() string {
	switch k {
	case KindSale:
		return "Record Sale"
	case KindCreditSale:
		return "Record Credit Sale"
	}
	return "Record Procurement"
}

// DateLayout is the date format the backend accepts.
const DateLayout = "2006-01-02"

// Payment statuses offered for a sale.
var PaymentStatuses = []string{"Paid", "Credit"}

// SubmitMsg carries a checked request body. Exactly one field is set.
type SubmitMsg struct {
	Procurement *client.ProcurementInput
	Sale        *client.SaleInput
	CreditSale  *client.CreditSaleInput
}

// CancelledMsg is sent on esc.
type CancelledMsg struct{}

// Options are the lookups the forms offer.
type Options struct {
	Branches []client.Branch
	Produce  []client.Produce
	Buyers   []client.Buyer
	// BranchID fixes the branch to the user's own; nil offers Branches.
	BranchID *int64
}

type values struct {
	branch      int64
	produce     int64
	tonnage     string
	source      string
	dealerPhone string
	cost        string
	selling     string
	buyerName   string
	buyerPhone  string
	price       string
	payment     string
	buyer       int64
	location    string
	nationalID  string
	dueDate     string
}

// Entry is one data entry form.
type Entry struct {
	kind    Kind
	opts    Options
	v       values
	errMsg  string
	notice  string
	pending bool
	form    *huh.Form
}

// New builds the form for kind.
func New(kind Kind, opts Options) *Entry {
	e := &Entry{kind: kind, opts: opts}
	e.reset(false)
	return e
}

func (e *Entry) Kind() Kind { return e.kind }

// reset rebuilds the form. Typed amounts are cleared unless keep is set;
// selections always survive.
func (e *Entry) reset(keep bool) {
	if !keep {
		e.v = values{branch: e.v.branch, produce: e.v.produce, source: e.v.source, payment: e.v.payment, buyer: e.v.buyer}
	}
	if e.opts.BranchID != nil {
		e.v.branch = *e.opts.BranchID
	} else if e.v.branch == 0 && len(e.opts.Branches) == 1 {
		e.v.branch = e.opts.Branches[0].ID
	}
	if e.v.payment == "" {
		e.v.payment = PaymentStatuses[0]
	}
	switch e.kind {
	case KindSale:
		e.form = e.saleForm()
	case KindCreditSale:
		e.form = e.creditSaleForm()
	default:
		e.form = e.procurementForm()
	}
}

func (e *Entry) branchField() huh.Field {
	opts := make([]huh.Option[int64], 0, len(e.opts.Branches))
	for _, b := range e.opts.Branches {
		opts = append(opts, huh.NewOption(b.Name, b.ID))
	}
	if len(opts) == 0 {
		opts = append(opts, huh.NewOption("(no branches)", int64(0)))
	}
	return huh.NewSelect[int64]().Title("Branch").Options(opts...).Value(&e.v.branch)
}

func produceOptions(list []client.Produce) []huh.Option[int64] {
	opts := make([]huh.Option[int64], 0, len(list))
	for _, p := range list {
		opts = append(opts, huh.NewOption(p.Name, p.ID))
	}
	if len(opts) == 0 {
		opts = append(opts, huh.NewOption("(no produce)", int64(0)))
	}
	return opts
}

func number(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return errors.New("enter a number")
	}
	return nil
}

func optionalNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return number(s)
}

func (e *Entry) procurementForm() *huh.Form {
	sources := make([]huh.Option[string], 0, len(advisory.Sources))
	for _, s := range advisory.Sources {
		sources = append(sources, huh.NewOption(s.Label, s.Value))
	}
	var fields []huh.Field
	if e.opts.BranchID == nil {
		fields = append(fields, e.branchField())
	}
	fields = append(fields,
		huh.NewSelect[int64]().Title("Produce").
			Options(produceOptions(advisory.FilterProduce(e.opts.Produce))...).
			Value(&e.v.produce),
		huh.NewInput().Title("Tonnage").
			Description(fmt.Sprintf("Minimum %d ton", advisory.MinimumTonnage)).
			Value(&e.v.tonnage).Validate(number),
		huh.NewSelect[string]().Title("Source").Options(sources...).Value(&e.v.source),
		huh.NewInput().Title("Dealer phone").Value(&e.v.dealerPhone),
		huh.NewInput().Title("Cost per ton (UGX)").Value(&e.v.cost).Validate(optionalNumber),
		huh.NewInput().Title("Selling price per ton (UGX)").Value(&e.v.selling).Validate(optionalNumber),
	)
	return e.wrap(fields)
}

func (e *Entry) saleForm() *huh.Form {
	payments := make([]huh.Option[string], 0, len(PaymentStatuses))
	for _, p := range PaymentStatuses {
		payments = append(payments, huh.NewOption(p, p))
	}
	var fields []huh.Field
	if e.opts.BranchID == nil {
		fields = append(fields, e.branchField())
	}
	fields = append(fields,
		huh.NewSelect[int64]().Title("Produce").Options(produceOptions(e.opts.Produce)...).Value(&e.v.produce),
		huh.NewInput().Title("Tonnage").Value(&e.v.tonnage).Validate(number),
		huh.NewInput().Title("Price per ton (UGX)").Value(&e.v.price).Validate(number),
		huh.NewSelect[string]().Title("Payment").Options(payments...).Value(&e.v.payment),
		huh.NewInput().Title("Buyer name").Value(&e.v.buyerName),
		huh.NewInput().Title("Buyer phone").Value(&e.v.buyerPhone),
	)
	return e.wrap(fields)
}

func (e *Entry) creditSaleForm() *huh.Form {
	buyers := []huh.Option[int64]{huh.NewOption("(new buyer)", int64(0))}
	for _, b := range e.opts.Buyers {
		buyers = append(buyers, huh.NewOption(b.Name, b.ID))
	}
	var fields []huh.Field
	if e.opts.BranchID == nil {
		fields = append(fields, e.branchField())
	}
	fields = append(fields,
		huh.NewSelect[int64]().Title("Produce").Options(produceOptions(e.opts.Produce)...).Value(&e.v.produce),
		huh.NewSelect[int64]().Title("Buyer").Options(buyers...).Value(&e.v.buyer),
		huh.NewInput().Title("Tonnage").Value(&e.v.tonnage).Validate(number),
		huh.NewInput().Title("Price per ton (UGX)").Value(&e.v.price).Validate(number),
		huh.NewInput().Title("Due date").Description("YYYY-MM-DD").Value(&e.v.dueDate).Validate(date),
		huh.NewInput().Title("Buyer phone").Value(&e.v.buyerPhone),
		huh.NewInput().Title("Buyer location").Value(&e.v.location),
		huh.NewInput().Title("National ID").Value(&e.v.nationalID),
	)
	return e.wrap(fields)
}

func date(s string) error {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(s)); err != nil {
		return errors.New("enter a date as YYYY-MM-DD")
	}
	return nil
}

func (e *Entry) wrap(fields []huh.Field) *huh.Form {
	return huh.NewForm(huh.NewGroup(fields...).Title(e.kind.String())).
		WithTheme(theme.Form()).
		WithShowHelp(false)
}

// SetError shows msg and reopens the form with the entered values kept.
func (e *Entry) SetError(msg string) tea.Cmd {
	e.errMsg = msg
	e.notice = ""
	e.pending = false
	e.reset(true)
	return e.form.Init()
}

// SetSaved clears the form after the server accepted it.
func (e *Entry) SetSaved(msg string) tea.Cmd {
	e.errMsg = ""
	e.notice = msg
	e.pending = false
	e.reset(false)
	return e.form.Init()
}

func (e *Entry) Pending() bool { return e.pending }

func (e *Entry) Init() tea.Cmd {
	return e.form.Init()
}

func (e *Entry) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if e.pending {
		return e, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return e, func() tea.Msg { return CancelledMsg{} }
	}

	model, cmd := e.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		e.form = f
	}
	if e.form.State == huh.StateCompleted {
		return e, e.submit()
	}
	return e, cmd
}

func (e *Entry) submit() tea.Cmd {
	var out SubmitMsg
	switch e.kind {
	case KindSale:
		in, err := e.sale()
		if err != nil {
			return e.SetError(err.Error())
		}
		out.Sale = &in
	case KindCreditSale:
		in, err := e.creditSale()
		if err != nil {
			return e.SetError(err.Error())
		}
		out.CreditSale = &in
	default:
		f := e.procurement()
		if err := f.Validate(); err != nil {
			return e.SetError(err.Error())
		}
		in := f.Input()
		out.Procurement = &in
	}
	e.errMsg = ""
	e.pending = true
	return func() tea.Msg { return out }
}

func parse(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func (e *Entry) procurement() advisory.ProcurementForm {
	return advisory.ProcurementForm{
		BranchID:           e.v.branch,
		ProduceID:          e.v.produce,
		Produce:            advisory.ProduceName(e.opts.Produce, e.v.produce),
		Tonnage:            parse(e.v.tonnage),
		Source:             e.v.source,
		DealerPhone:        strings.TrimSpace(e.v.dealerPhone),
		CostPerTon:         parse(e.v.cost),
		SellingPricePerTon: parse(e.v.selling),
	}
}

func (e *Entry) sale() (client.SaleInput, error) {
	in := client.SaleInput{
		BranchID:      e.v.branch,
		ProduceID:     e.v.produce,
		BuyerName:     strings.TrimSpace(e.v.buyerName),
		BuyerPhone:    strings.TrimSpace(e.v.buyerPhone),
		Tonnage:       parse(e.v.tonnage),
		PricePerTon:   parse(e.v.price),
		PaymentStatus: e.v.payment,
	}
	switch {
	case in.BranchID == 0:
		return in, errors.New("Select a branch")
	case in.ProduceID == 0:
		return in, errors.New("Select a produce")
	case in.Tonnage <= 0:
		return in, errors.New("Tonnage must be greater than 0")
	case in.PricePerTon <= 0:
		return in, errors.New("Price per ton must be greater than 0")
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = "Paid"
	}
	return in, nil
}

func (e *Entry) creditSale() (client.CreditSaleInput, error) {
	in := client.CreditSaleInput{
		BranchID:      e.v.branch,
		ProduceID:     e.v.produce,
		BuyerID:       e.v.buyer,
		BuyerPhone:    strings.TrimSpace(e.v.buyerPhone),
		BuyerLocation: strings.TrimSpace(e.v.location),
		NationalID:    strings.TrimSpace(e.v.nationalID),
		Tonnage:       parse(e.v.tonnage),
		PricePerTon:   parse(e.v.price),
		DueDate:       strings.TrimSpace(e.v.dueDate),
	}
	switch {
	case in.BranchID == 0:
		return in, errors.New("Select a branch")
	case in.ProduceID == 0:
		return in, errors.New("Select a produce")
	case in.Tonnage <= 0:
		return in, errors.New("Tonnage must be greater than 0")
	case in.PricePerTon <= 0:
		return in, errors.New("Price per ton must be greater than 0")
	case date(in.DueDate) != nil:
		return in, errors.New("Enter a due date as YYYY-MM-DD")
	}
	return in, nil
}

func (e *Entry) View() string {
	var sb strings.Builder
	if e.notice != "" {
		sb.WriteString(styles.SuccessText.Render(icons.CheckOK.String() + " " + e.notice))
		sb.WriteString("\n\n")
	}
	if e.errMsg != "" {
		sb.WriteString(styles.ErrorText.Render(icons.Critical.String() + " " + e.errMsg))
		sb.WriteString("\n\n")
	}
	if e.pending {
		sb.WriteString(styles.HintText.Render("Saving…"))
		return sb.String()
	}
	sb.WriteString(e.form.View())
	return sb.String()
}
