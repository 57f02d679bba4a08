package savings

import (
	"strings"
	"time"

	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type CreateGoalRequest struct {
	OwnerId          ulid.ULID
	CategoryId       ulid.ULID
	Description      string
	TargetAmount     decimal.Decimal
	Frequency        Frequency
	TargetDate       *time.Time
	InstallmentCount *int
}

// UpdateGoalRequest edits a goal. Frequency is always required; nil fields are kept.
type UpdateGoalRequest struct {
	Id               ulid.ULID
	OwnerId          ulid.ULID
	Description      *string
	TargetAmount     *decimal.Decimal
	Frequency        Frequency
	TargetDate       *time.Time
	InstallmentCount *int
}

type ContributionRequest struct {
	GoalId        ulid.ULID
	OwnerId       ulid.ULID
	InstallmentId *ulid.ULID
	Amount        decimal.Decimal
}

func validateCreate(req *CreateGoalRequest, today time.Time) error {
	if req.CategoryId == (ulid.ULID{}) {
		return appErrors.NewValidationError("categoryId", "A categoria é obrigatória")
	}
	if err := validateDescription(req.Description); err != nil {
		return err
	}
	if err := validateTargetAmount(req.TargetAmount); err != nil {
		return err
	}
	if err := validateFrequency(req.Frequency); err != nil {
		return err
	}
	if req.TargetDate == nil && req.InstallmentCount == nil {
		return appErrors.NewValidationError("targetDate", "Informe a data meta ou a quantidade de parcelas")
	}
	if err := validateInstallmentCount(req.InstallmentCount); err != nil {
		return err
	}
	return validateTargetDate(req.TargetDate, today)
}

func validateUpdate(req *UpdateGoalRequest, createdOn time.Time) error {
	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return err
		}
	}
	if req.TargetAmount != nil {
		if err := validateTargetAmount(*req.TargetAmount); err != nil {
			return err
		}
	}
	if err := validateFrequency(req.Frequency); err != nil {
		return err
	}
	if err := validateInstallmentCount(req.InstallmentCount); err != nil {
		return err
	}
	return validateTargetDate(req.TargetDate, createdOn)
}

func validateDescription(description string) error {
	if len([]rune(strings.TrimSpace(description))) > MaxDescriptionLength {
		return appErrors.NewValidationError("description", "A descrição não pode ter mais de 100 caracteres")
	}
	return nil
}

func validateTargetAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return appErrors.NewValidationError("targetAmount", "O valor alvo deve ser maior que zero")
	}
	if !hasCentPrecision(amount) {
		return appErrors.NewValidationError("targetAmount", "O valor alvo deve ter no máximo duas casas decimais")
	}
	return nil
}

func validateFrequency(f Frequency) error {
	if f == "" {
		return appErrors.NewValidationError("frequency", "A frequência é obrigatória")
	}
	if !f.IsValid() {
		return appErrors.NewValidationError("frequency", "Frequência inválida")
	}
	return nil
}

func validateInstallmentCount(count *int) error {
	if count != nil && *count < 1 {
		return appErrors.NewValidationError("installmentCount", "A quantidade de parcelas deve ser maior ou igual a 1")
	}
	return nil
}

func validateTargetDate(targetDate *time.Time, notBefore time.Time) error {
	if targetDate != nil && DateOf(*targetDate).Before(DateOf(notBefore)) {
		return appErrors.NewValidationError("targetDate", "A data meta não pode ser anterior à data de criação")
	}
	return nil
}
