package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/1Zamuken1/GastuApp/internal/domain/savings"
	"github.com/1Zamuken1/GastuApp/internal/pkg"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type previewOptions struct {
	target     string
	frequency  string
	count      int
	targetDate string
	start      string
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "savings-plan",
		Short:         "Simula o plano de parcelas de uma meta de economia",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPreviewCmd())
	return root
}

func newPreviewCmd() *cobra.Command {
	opts := &previewOptions{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Mostra as parcelas geradas para um valor e uma frequência",
		Long: "Resolve a data final ou a quantidade de parcelas e lista o cronograma,\n" +
			"sem gravar nada no banco.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.target, "target", "", "Valor alvo da meta (ex.: 1200.00)")
	cmd.Flags().StringVar(&opts.frequency, "frequency", string(savings.FrequencyMonthly),
		"Frequência: "+strings.Join(frequencyNames(), ", "))
	cmd.Flags().IntVar(&opts.count, "count", 0, "Quantidade de parcelas")
	cmd.Flags().StringVar(&opts.targetDate, "target-date", "", "Data final (AAAA-MM-DD)")
	cmd.Flags().StringVar(&opts.start, "start", "", "Data de início (AAAA-MM-DD); padrão hoje")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func frequencyNames() []string {
	names := make([]string, 0, len(savings.Frequencies()))
	for _, f := range savings.Frequencies() {
		names = append(names, string(f))
	}
	return names
}

func runPreview(out io.Writer, opts *previewOptions) error {
	goal, clock, err := opts.goal()
	if err != nil {
		return err
	}

	scheduler := savings.NewScheduler(clock)
	if err := scheduler.ResolveMissingField(goal); err != nil {
		return fmt.Errorf("informe --count ou --target-date: %w", err)
	}
	installments := scheduler.GenerateInstallments(goal)

	fmt.Fprintf(out, "Meta: %s em %d parcela(s) %s, de %s a %s\n\n",
		goal.TargetAmount.StringFixed(2), goal.InstallmentCount, goal.Frequency,
		pkg.NewDate(goal.CreatedOn), pkg.NewDate(goal.TargetDate))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tVencimento\tValor\t")
	for i, inst := range installments {
		fmt.Fprintf(w, "%d\t%s\t%s\t\n", i+1, pkg.NewDate(inst.DueDate), inst.AssignedAmount.StringFixed(2))
	}
	return w.Flush()
}

func (o *previewOptions) goal() (*savings.Goal, savings.Clock, error) {
	target, err := decimal.NewFromString(strings.TrimSpace(o.target))
	if err != nil || !target.IsPositive() {
		return nil, nil, fmt.Errorf("--target deve ser um valor positivo: %q", o.target)
	}
	if !target.Equal(target.Round(2)) {
		return nil, nil, fmt.Errorf("--target aceita no máximo duas casas decimais: %q", o.target)
	}

	frequency := savings.Frequency(strings.ToUpper(strings.TrimSpace(o.frequency)))
	if !frequency.IsValid() {
		return nil, nil, fmt.Errorf("--frequency inválida %q, use uma de: %s", o.frequency, strings.Join(frequencyNames(), ", "))
	}

	var clock savings.Clock = savings.SystemClock{Location: time.Local}
	if o.start != "" {
		start, err := pkg.ParseDate(o.start)
		if err != nil {
			return nil, nil, fmt.Errorf("--start inválida %q: use AAAA-MM-DD", o.start)
		}
		clock = fixedClock{now: start.Time}
	}

	goal := &savings.Goal{
		TargetAmount: target,
		Frequency:    frequency,
		CreatedOn:    savings.Today(clock),
		Status:       savings.GoalNotStarted,
	}

	if o.count < 0 {
		return nil, nil, fmt.Errorf("--count deve ser positivo")
	}
	goal.InstallmentCount = o.count

	if o.targetDate != "" {
		targetDate, err := pkg.ParseDate(o.targetDate)
		if err != nil {
			return nil, nil, fmt.Errorf("--target-date inválida %q: use AAAA-MM-DD", o.targetDate)
		}
		if targetDate.Before(goal.CreatedOn) {
			return nil, nil, fmt.Errorf("--target-date não pode ser anterior ao início")
		}
		goal.TargetDate = targetDate.Time
	}
	return goal, clock, nil
}
