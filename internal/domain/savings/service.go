package savings

import (
	"context"
	"net/http"
	"strings"
	"time"

	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"
	"github.com/1Zamuken1/GastuApp/internal/logger"
	"github.com/1Zamuken1/GastuApp/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Service struct {
	Repository Repository
	TxManager  TxManager
	Categories CategoryValidator
	Scheduler  *Scheduler
	Ledger     *Ledger
	Clock      Clock
}

func NewService(repo Repository, tx TxManager, categories CategoryValidator, clock Clock) *Service {
	scheduler := NewScheduler(clock)
	return &Service{
		Repository: repo,
		TxManager:  tx,
		Categories: categories,
		Scheduler:  scheduler,
		Ledger:     NewLedger(clock, scheduler),
		Clock:      clock,
	}
}

func (s *Service) CreateGoal(ctx context.Context, req *CreateGoalRequest) (*GoalDetails, error) {
	today := Today(s.Clock)
	if err := validateCreate(req, today); err != nil {
		return nil, err
	}

	category, err := s.Categories.ValidateSavingsCategory(ctx, req.CategoryId)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	goal := &Goal{
		Id:                pkg.GenerateULIDObject(),
		OwnerId:           req.OwnerId,
		CategoryId:        req.CategoryId,
		Description:       strings.TrimSpace(req.Description),
		TargetAmount:      req.TargetAmount,
		AccumulatedAmount: decimal.Zero,
		Frequency:         req.Frequency,
		CreatedOn:         today,
		Status:            GoalNotStarted,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.TargetDate != nil {
		goal.TargetDate = DateOf(*req.TargetDate)
	}
	if req.InstallmentCount != nil {
		goal.InstallmentCount = *req.InstallmentCount
	}

	if err := s.Scheduler.ResolveMissingField(goal); err != nil {
		logger.Error().Err(err).Str("owner_id", req.OwnerId.String()).Msg("Falha ao resolver parâmetros da meta")
		return nil, err
	}
	installments := s.Scheduler.GenerateInstallments(goal)

	err = s.TxManager.WithinTransaction(ctx, func(ctx context.Context, repo Repository) error {
		goal.Version = 0
		if err := repo.SaveGoal(ctx, goal); err != nil {
			return err
		}
		return repo.SaveInstallments(ctx, installments)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("goal_id", goal.Id.String()).
		Str("owner_id", goal.OwnerId.String()).
		Int("installments", len(installments)).
		Msg("Meta de economia criada")

	return &GoalDetails{
		GoalView:     GoalView{Goal: goal, CategoryName: category.Name, InstallmentTotal: int64(len(installments))},
		Installments: installments,
	}, nil
}

func (s *Service) UpdateGoal(ctx context.Context, req *UpdateGoalRequest) (*GoalDetails, error) {
	var (
		goal         *Goal
		installments []*Installment
	)

	err := s.TxManager.WithinTransaction(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		goal, err = repo.FindGoalByIDAndOwner(ctx, req.Id, req.OwnerId)
		if err != nil {
			return err
		}
		if err := validateUpdate(req, goal.CreatedOn); err != nil {
			return err
		}

		if err := s.applyUpdate(goal, req); err != nil {
			return err
		}

		installments, err = repo.ListInstallmentsByGoal(ctx, goal.Id)
		if err != nil {
			return err
		}
		changed := s.Scheduler.Reschedule(goal, installments)

		goal.UpdatedAt = s.Clock.Now()
		if err := repo.SaveGoal(ctx, goal); err != nil {
			return err
		}
		return repo.SaveInstallments(ctx, changed)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("goal_id", goal.Id.String()).Msg("Meta de economia reprogramada")

	view, err := s.buildView(ctx, goal, int64(len(installments)))
	if err != nil {
		return nil, err
	}
	return &GoalDetails{GoalView: *view, Installments: sortedByDueDate(installments)}, nil
}

// applyUpdate copies the edited fields and keeps target date and installment
// count consistent with each other.
func (s *Service) applyUpdate(goal *Goal, req *UpdateGoalRequest) error {
	if req.Description != nil {
		goal.Description = strings.TrimSpace(*req.Description)
	}
	if req.TargetAmount != nil {
		goal.TargetAmount = *req.TargetAmount
	}
	goal.Frequency = req.Frequency

	switch {
	case req.TargetDate != nil && req.InstallmentCount != nil:
		goal.TargetDate = DateOf(*req.TargetDate)
		goal.InstallmentCount = *req.InstallmentCount
	case req.TargetDate != nil:
		goal.TargetDate = DateOf(*req.TargetDate)
		goal.InstallmentCount = 0
	default:
		if req.InstallmentCount != nil {
			goal.InstallmentCount = *req.InstallmentCount
		}
		goal.TargetDate = time.Time{}
	}
	return s.Scheduler.ResolveMissingField(goal)
}

func (s *Service) DeleteGoal(ctx context.Context, goalID, ownerID ulid.ULID) error {
	err := s.TxManager.WithinTransaction(ctx, func(ctx context.Context, repo Repository) error {
		goal, err := repo.FindGoalByIDAndOwner(ctx, goalID, ownerID)
		if err != nil {
			return err
		}
		installments, err := repo.ListInstallmentsByGoal(ctx, goal.Id)
		if err != nil {
			return err
		}
		if len(installments) > 0 {
			if err := repo.DeleteInstallments(ctx, installments); err != nil {
				return err
			}
		}
		return repo.DeleteGoal(ctx, goal)
	})
	if err != nil {
		return err
	}

	logger.Info().Str("goal_id", goalID.String()).Msg("Meta de economia removida")
	return nil
}

func (s *Service) GetGoal(ctx context.Context, goalID, ownerID ulid.ULID) (*GoalDetails, error) {
	goal, err := s.Repository.FindGoalByIDAndOwner(ctx, goalID, ownerID)
	if err != nil {
		return nil, err
	}
	installments, err := s.Repository.ListInstallmentsByGoal(ctx, goal.Id)
	if err != nil {
		return nil, err
	}
	view, err := s.buildView(ctx, goal, int64(len(installments)))
	if err != nil {
		return nil, err
	}
	return &GoalDetails{GoalView: *view, Installments: installments}, nil
}

func (s *Service) ListGoals(ctx context.Context, ownerID ulid.ULID, status *GoalStatus, pagination *pkg.PaginationParams) ([]*GoalView, int64, error) {
	if status != nil && !status.IsValid() {
		return nil, 0, appErrors.NewValidationError("status", "Status inválido")
	}

	goals, total, err := s.Repository.ListGoalsByOwner(ctx, ownerID, &GoalFilters{Status: status}, pagination)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.buildViews(ctx, goals)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// SearchGoals matches text against the name of each goal's category.
func (s *Service) SearchGoals(ctx context.Context, ownerID ulid.ULID, text string) ([]*GoalView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, appErrors.NewValidationError("q", "Informe o texto da busca")
	}

	goals, err := s.Repository.SearchGoalsByCategoryName(ctx, ownerID, text)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, goals)
}

func (s *Service) ListInstallments(ctx context.Context, goalID, ownerID ulid.ULID) ([]*Installment, error) {
	goal, err := s.Repository.FindGoalByIDAndOwner(ctx, goalID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.Repository.ListInstallmentsByGoal(ctx, goal.Id)
}

func (s *Service) GetInstallment(ctx context.Context, goalID, installmentID, ownerID ulid.ULID) (*Installment, error) {
	goal, err := s.Repository.FindGoalByIDAndOwner(ctx, goalID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.Repository.FindInstallmentByIDAndGoal(ctx, installmentID, goal.Id)
}

// NextPayable expires overdue installments, persists that, and returns the
// earliest installment inside the early-payment window.
func (s *Service) NextPayable(ctx context.Context, goalID, ownerID ulid.ULID) (*Installment, error) {
	var next *Installment

	err := s.TxManager.WithinTransaction(ctx, func(ctx context.Context, repo Repository) error {
		goal, err := repo.FindGoalByIDAndOwner(ctx, goalID, ownerID)
		if err != nil {
			return err
		}
		installments, err := repo.ListInstallmentsByGoal(ctx, goal.Id)
		if err != nil {
			return err
		}
		if len(installments) == 0 && goal.TargetAmount.IsPositive() {
			return appErrors.NewConfigurationError("meta sem parcelas geradas").
				WithDetails(map[string]interface{}{"reason": ReasonGoalWithoutSchedule})
		}

		previous := goal.Status
		expired := s.Ledger.Refresh(goal, installments)
		if len(expired) > 0 || goal.Status != previous {
			if err := repo.SaveInstallments(ctx, expired); err != nil {
				return err
			}
			goal.UpdatedAt = s.Clock.Now()
			if err := repo.SaveGoal(ctx, goal); err != nil {
				return err
			}
			s.logRefresh(goal, previous, len(expired))
		}

		next = s.Ledger.NextPayable(installments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, appErrors.ErrNoPayableInstallment
	}
	return next, nil
}

func (s *Service) RegisterContribution(ctx context.Context, req *ContributionRequest) (*Installment, error) {
	if !req.Amount.IsPositive() {
		return nil, appErrors.NewValidationError("amount", "O valor do aporte deve ser maior que zero")
	}

	var (
		outcome  *ContributionOutcome
		goal     *Goal
		previous GoalStatus
	)

	err := s.TxManager.WithinTransaction(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		goal, err = repo.FindGoalByIDAndOwner(ctx, req.GoalId, req.OwnerId)
		if err != nil {
			return err
		}
		installments, err := repo.ListInstallmentsByGoal(ctx, goal.Id)
		if err != nil {
			return err
		}

		previous = goal.Status
		outcome, err = s.Ledger.RegisterContribution(goal, installments, req.InstallmentId, req.Amount)
		if err != nil {
			return err
		}

		if err := repo.SaveInstallments(ctx, outcome.Changed); err != nil {
			return err
		}
		goal.UpdatedAt = s.Clock.Now()
		return repo.SaveGoal(ctx, goal)
	})
	if err != nil {
		if appErrors.IsStateConflict(err) {
			logger.Warn().Err(err).Str("goal_id", req.GoalId.String()).Msg("Aporte rejeitado")
		}
		return nil, err
	}

	logger.Info().
		Str("goal_id", goal.Id.String()).
		Str("installment_id", outcome.Installment.Id.String()).
		Str("amount", req.Amount.StringFixed(moneyPlaces)).
		Str("accumulated", goal.AccumulatedAmount.StringFixed(moneyPlaces)).
		Str("status", string(goal.Status)).
		Msg("Aporte registrado")
	if previous == GoalAbandoned && goal.Status == GoalAbandoned {
		logger.Warn().Str("goal_id", goal.Id.String()).Msg("Meta reativada e abandonada novamente no mesmo aporte")
	}

	return outcome.Installment, nil
}

func (s *Service) GetGoalProgress(ctx context.Context, goalID, ownerID ulid.ULID) (*GoalProgress, error) {
	goal, err := s.Repository.FindGoalByIDAndOwner(ctx, goalID, ownerID)
	if err != nil {
		return nil, err
	}
	installments, err := s.Repository.ListInstallmentsByGoal(ctx, goal.Id)
	if err != nil {
		return nil, err
	}
	return buildProgress(goal, installments), nil
}

func (s *Service) buildViews(ctx context.Context, goals []*Goal) ([]*GoalView, error) {
	views := make([]*GoalView, 0, len(goals))
	for _, goal := range goals {
		count, err := s.Repository.CountInstallmentsByGoal(ctx, goal.Id)
		if err != nil {
			return nil, err
		}
		view, err := s.buildView(ctx, goal, count)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) buildView(ctx context.Context, goal *Goal, installmentTotal int64) (*GoalView, error) {
	category, err := s.Categories.GetCategoryRef(ctx, goal.CategoryId)
	if err != nil {
		if appErrors.IsValidationError(err) || isNotFound(err) {
			logger.Error().Err(err).Str("goal_id", goal.Id.String()).Msg("Categoria da meta não encontrada")
			return nil, appErrors.NewConfigurationError("categoria da meta não encontrada").WithError(err)
		}
		return nil, err
	}
	return &GoalView{Goal: goal, CategoryName: category.Name, InstallmentTotal: installmentTotal}, nil
}

func (s *Service) logRefresh(goal *Goal, previous GoalStatus, expired int) {
	event := logger.Info()
	if goal.Status == GoalAbandoned && previous != GoalAbandoned {
		event = logger.Warn()
	}
	event.
		Str("goal_id", goal.Id.String()).
		Int("expired", expired).
		Str("status", string(goal.Status)).
		Msg("Parcelas vencidas marcadas como perdidas")
}

func isNotFound(err error) bool {
	appErr, ok := appErrors.AsAppError(err)
	return ok && appErr.StatusCode == http.StatusNotFound
}
