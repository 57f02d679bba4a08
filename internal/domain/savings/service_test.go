package savings_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/1Zamuken1/GastuApp/internal/domain/savings"
	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"

	"github.com/oklog/ulid/v2"
)

type serviceFixture struct {
	repo       *memoryRepository
	tx         *directTxManager
	categories *fakeCategoryValidator
	owner      ulid.ULID
}

func newFixture() *serviceFixture {
	repo := newMemoryRepository()
	return &serviceFixture{
		repo:       repo,
		tx:         &directTxManager{repo: repo, attempts: 3},
		categories: &fakeCategoryValidator{},
		owner:      ulid.Make(),
	}
}

func (f *serviceFixture) service(clock savings.Clock) *savings.Service {
	return savings.NewService(f.repo, f.tx, f.categories, clock)
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func (f *serviceFixture) createGoal(t *testing.T, clock savings.Clock, target string, freq savings.Frequency, count int) *savings.GoalDetails {
	t.Helper()
	details, err := f.service(clock).CreateGoal(context.Background(), &savings.CreateGoalRequest{
		OwnerId:          f.owner,
		CategoryId:       ulid.Make(),
		Description:      "  Viagem de férias ",
		TargetAmount:     dec(target),
		Frequency:        freq,
		InstallmentCount: intPtr(count),
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	return details
}

func TestCreateGoalWithInstallmentCount(t *testing.T) {
	f := newFixture()
	details := f.createGoal(t, clockAt(2024, time.January, 1), "100.00", savings.FrequencyMonthly, 3)

	if details.Status != savings.GoalNotStarted || details.Version != 1 {
		t.Fatalf("unexpected goal state %s v%d", details.Status, details.Version)
	}
	if !details.CreatedOn.Equal(date(2024, 1, 1)) || !details.TargetDate.Equal(date(2024, 3, 1)) {
		t.Fatalf("unexpected dates %s -> %s", details.CreatedOn, details.TargetDate)
	}
	if details.Description != "Viagem de férias" {
		t.Fatalf("description not trimmed: %q", details.Description)
	}
	if details.CategoryName != "Viagem" || details.InstallmentTotal != 3 {
		t.Fatalf("unexpected view %q %d", details.CategoryName, details.InstallmentTotal)
	}
	if len(details.Installments) != 3 || len(f.repo.storedInstallments(details.Id)) != 3 {
		t.Fatal("expected 3 installments returned and stored")
	}
	if f.categories.calls != 1 {
		t.Fatalf("expected category validated once, got %d", f.categories.calls)
	}
}

func TestCreateGoalWithTargetDate(t *testing.T) {
	f := newFixture()
	details, err := f.service(clockAt(2024, time.January, 1)).CreateGoal(context.Background(), &savings.CreateGoalRequest{
		OwnerId:      f.owner,
		CategoryId:   ulid.Make(),
		TargetAmount: dec("100.00"),
		Frequency:    savings.FrequencyMonthly,
		TargetDate:   timePtr(date(2024, 3, 1)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.InstallmentCount != 3 || len(details.Installments) != 3 {
		t.Fatalf("expected 3 installments, got count=%d len=%d", details.InstallmentCount, len(details.Installments))
	}
}

func TestCreateGoalValidation(t *testing.T) {
	valid := func() *savings.CreateGoalRequest {
		return &savings.CreateGoalRequest{
			CategoryId:       ulid.Make(),
			TargetAmount:     dec("100.00"),
			Frequency:        savings.FrequencyMonthly,
			InstallmentCount: intPtr(3),
		}
	}

	cases := map[string]func(r *savings.CreateGoalRequest){
		"missing category":       func(r *savings.CreateGoalRequest) { r.CategoryId = ulid.ULID{} },
		"zero amount":            func(r *savings.CreateGoalRequest) { r.TargetAmount = dec("0") },
		"negative amount":        func(r *savings.CreateGoalRequest) { r.TargetAmount = dec("-1") },
		"sub-cent amount":        func(r *savings.CreateGoalRequest) { r.TargetAmount = dec("10.001") },
		"missing frequency":      func(r *savings.CreateGoalRequest) { r.Frequency = "" },
		"unknown frequency":      func(r *savings.CreateGoalRequest) { r.Frequency = "HOURLY" },
		"neither date nor count": func(r *savings.CreateGoalRequest) { r.InstallmentCount = nil },
		"zero count":             func(r *savings.CreateGoalRequest) { r.InstallmentCount = intPtr(0) },
		"long description":       func(r *savings.CreateGoalRequest) { r.Description = strings.Repeat("a", 101) },
		"date before creation":   func(r *savings.CreateGoalRequest) { r.TargetDate = timePtr(date(2023, 12, 31)) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			req := valid()
			req.OwnerId = f.owner
			mutate(req)

			_, err := f.service(clockAt(2024, time.January, 1)).CreateGoal(context.Background(), req)
			if !appErrors.IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if f.categories.calls != 0 || len(f.repo.goals) != 0 {
				t.Fatal("validation must run before any collaborator call")
			}
		})
	}
}

func TestCreateGoalRejectsCategoryOfOtherKind(t *testing.T) {
	f := newFixture()
	f.categories.validateFn = func(ctx context.Context, categoryID ulid.ULID) (*savings.CategoryRef, error) {
		return nil, appErrors.NewValidationError("categoryId", "A categoria deve ser do tipo SAVINGS")
	}

	_, err := f.service(clockAt(2024, time.January, 1)).CreateGoal(context.Background(), &savings.CreateGoalRequest{
		OwnerId:          f.owner,
		CategoryId:       ulid.Make(),
		TargetAmount:     dec("100.00"),
		Frequency:        savings.FrequencyMonthly,
		InstallmentCount: intPtr(3),
	})
	if !appErrors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repo.goals) != 0 || len(f.repo.installments) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestRegisterContributionPersistsOutcome(t *testing.T) {
	f := newFixture()
	clock := clockAt(2024, time.January, 1)
	created := f.createGoal(t, clock, "100.00", savings.FrequencyMonthly, 3)

	paid, err := f.service(clock).RegisterContribution(context.Background(), &savings.ContributionRequest{
		GoalId:  created.Id,
		OwnerId: f.owner,
		Amount:  dec("40.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paid.Id != created.Installments[0].Id {
		t.Fatal("expected the first installment to be paid")
	}

	stored := f.repo.goals[created.Id]
	if !stored.AccumulatedAmount.Equal(dec("40.00")) || stored.Status != savings.GoalActive || stored.Version != 2 {
		t.Fatalf("unexpected stored goal %s %s v%d", stored.AccumulatedAmount, stored.Status, stored.Version)
	}

	installments := f.repo.storedInstallments(created.Id)
	if installments[0].Status != savings.InstallmentContributed || !installments[0].ContributedAmount.Equal(dec("40.00")) {
		t.Fatalf("unexpected first installment %+v", installments[0])
	}
	for i, inst := range installments[1:] {
		if !inst.AssignedAmount.Equal(dec("30.00")) {
			t.Fatalf("pending %d: expected 30.00, got %s", i, inst.AssignedAmount)
		}
	}
}

func TestRegisterContributionRejectedLeavesStoreUntouched(t *testing.T) {
	f := newFixture()
	created := f.createGoal(t, clockAt(2024, time.January, 1), "100.00", savings.FrequencyMonthly, 3)
	target := created.Installments[2].Id

	_, err := f.service(clockAt(2024, time.January, 20)).RegisterContribution(context.Background(), &savings.ContributionRequest{
		GoalId:        created.Id,
		OwnerId:       f.owner,
		InstallmentId: &target,
		Amount:        dec("10.00"),
	})
	if !appErrors.IsStateConflict(err) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	for _, inst := range f.repo.storedInstallments(created.Id) {
		if inst.Status != savings.InstallmentPending {
			t.Fatalf("installment %s changed to %s", inst.Id, inst.Status)
		}
	}
	if f.repo.goals[created.Id].Version != 1 {
		t.Fatal("goal should not be saved")
	}
}

func TestRegisterContributionHidesOtherOwnersGoals(t *testing.T) {
	f := newFixture()
	created := f.createGoal(t, clockAt(2024, time.January, 1), "100.00", savings.FrequencyMonthly, 3)

	_, err := f.service(clockAt(2024, time.January, 1)).RegisterContribution(context.Background(), &savings.ContributionRequest{
		GoalId:  created.Id,
		OwnerId: ulid.Make(),
		Amount:  dec("10.00"),
	})
	if !errors.Is(err, appErrors.ErrSavingsGoalNotFound) {
		t.Fatalf("expected goal not found, got %v", err)
	}
}

func TestRegisterContributionRetriesOnConcurrentModification(t *testing.T) {
	f := newFixture()
	clock := clockAt(2024, time.January, 1)
	created := f.createGoal(t, clock, "100.00", savings.FrequencyMonthly, 3)

	conflicts := 1
	f.repo.saveGoalFn = func(ctx context.Context, goal *savings.Goal) error {
		if conflicts > 0 {
			conflicts--
			return appErrors.ErrConcurrentModification
		}
		return nil
	}
	f.tx.calls = 0

	if _, err := f.service(clock).RegisterContribution(context.Background(), &savings.ContributionRequest{
		GoalId:  created.Id,
		OwnerId: f.owner,
		Amount:  dec("40.00"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.tx.calls != 2 {
		t.Fatalf("expected one retry, got %d attempts", f.tx.calls)
	}
	if got := f.repo.goals[created.Id].AccumulatedAmount; !got.Equal(dec("40.00")) {
		t.Fatalf("contribution applied more than once: %s", got)
	}
}

func TestRegisterContributionGivesUpAfterRetries(t *testing.T) {
	f := newFixture()
	clock := clockAt(2024, time.January, 1)
	created := f.createGoal(t, clock, "100.00", savings.FrequencyMonthly, 3)
	f.repo.saveGoalFn = func(ctx context.Context, goal *savings.Goal) error {
		return appErrors.ErrConcurrentModification
	}

	_, err := f.service(clock).RegisterContribution(context.Background(), &savings.ContributionRequest{
		GoalId:  created.Id,
		OwnerId: f.owner,
		Amount:  dec("40.00"),
	})
	if !appErrors.IsConcurrentModification(err) {
		t.Fatalf("expected concurrent modification, got %v", err)
	}
	if !f.repo.goals[created.Id].AccumulatedAmount.IsZero() {
		t.Fatal("nothing should be committed")
	}
}

func TestServiceNextPayable(t *testing.T) {
	f := newFixture()
	created := f.createGoal(t, clockAt(2024, time.January, 1), "100.00", savings.FrequencyMonthly, 3)

	next, err := f.service(clockAt(2024, time.January, 27)).NextPayable(context.Background(), created.Id, f.owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Id != created.Installments[1].Id {
		t.Fatalf("expected the February installment, got due %s", next.DueDate)
	}

	stored := f.repo.storedInstallments(created.Id)
	if stored[0].Status != savings.InstallmentLost {
		t.Fatalf("overdue installment should be stored as lost, got %s", stored[0].Status)
	}
	if f.repo.goals[created.Id].Version != 2 {
		t.Fatal("expiring installments should save the goal")
	}
}

func TestNextPayableAbandonsLapsedGoal(t *testing.T) {
	f := newFixture()
	created := f.createGoal(t, clockAt(2024, time.January, 1), "100.00", savings.FrequencyMonthly, 3)

	_, err := f.service(clockAt(2024, time.May, 1)).NextPayable(context.Background(), created.Id, f.owner)
	if !errors.Is(err, appErrors.ErrNoPayableInstallment) {
		t.Fatalf("expected no payable installment, got %v", err)
	}
	if status := f.repo.goals[created.Id].Status; status != savings.GoalAbandoned {
		t.Fatalf("expected ABANDONED, got %s", status)
	}
	for _, inst := range f.repo.storedInstallments(created.Id) {
		if inst.Status != savings.InstallmentLost {
			t.Fatalf("expected every installment lost, got %s", inst.Status)
		}
	}
}

func TestNextPayableNothingInWindowDoesNotSave(t *testing.T) {
	f := newFixture()
	created := f.createGoal(t, clockAt(2024, time.January, 1), "100.00", savings.FrequencyMonthly, 3)
	f.repo.installments = map[ulid.ULID]savings.Installment{}
	for _, inst := range created.Installments[1:] {
		f.repo.installments[inst.Id] = *inst
	}

	_, err := f.service(clockAt(2024, time.January, 1)).NextPayable(context.Background(), created.Id, f.owner)
	if !errors.Is(err, appErrors.ErrNoPayableInstallment) {
		t.Fatalf("expected no payable installment, got %v", err)
	}
	if f.repo.goals[created.Id].Version != 1 {
		t.Fatal("goal should not be saved when nothing expired")
	}
}

func TestUpdateGoalReschedulesPending(t *testing.T) {
	f := newFixture()
	created := f.createGoal(t, clockAt(2024, time.January, 1), "400.00", savings.FrequencyWeekly, 4)
	if _, err := f.service(clockAt(2024, time.January, 1)).RegisterContribution(context.Background(), &savings.ContributionRequest{
		GoalId:  created.Id,
		OwnerId: f.owner,
		Amount:  dec("100.00"),
	}); err != nil {
		t.Fatalf("contribution: %v", err)
	}

	target := dec("700.00")
	details, err := f.service(clockAt(2024, time.January, 2)).UpdateGoal(context.Background(), &savings.UpdateGoalRequest{
		Id:           created.Id,
		OwnerId:      f.owner,
		TargetAmount: &target,
		Frequency:    savings.FrequencyMonthly,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !details.TargetDate.Equal(date(2024, 4, 1)) || details.InstallmentCount != 4 {
		t.Fatalf("unexpected plan %s x%d", details.TargetDate, details.InstallmentCount)
	}
	stored := f.repo.storedInstallments(created.Id)
	if stored[0].Status != savings.InstallmentContributed || !stored[0].DueDate.Equal(date(2024, 1, 1)) {
		t.Fatalf("contributed installment changed: %+v", stored[0])
	}
	wantDates := []time.Time{date(2024, 2, 1), date(2024, 3, 1), date(2024, 4, 1)}
	for i, inst := range stored[1:] {
		if !inst.DueDate.Equal(wantDates[i]) || !inst.AssignedAmount.Equal(dec("200.00")) {
			t.Fatalf("pending %d: got %s %s", i, inst.DueDate, inst.AssignedAmount)
		}
	}
}

func TestUpdateGoalTargetDateRecomputesCount(t *testing.T) {
	f := newFixture()
	created := f.createGoal(t, clockAt(2024, time.January, 1), "120.00", savings.FrequencyMonthly, 3)

	details, err := f.service(clockAt(2024, time.January, 1)).UpdateGoal(context.Background(), &savings.UpdateGoalRequest{
		Id:         created.Id,
		OwnerId:    f.owner,
		Frequency:  savings.FrequencyMonthly,
		TargetDate: timePtr(date(2024, 6, 1)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.InstallmentCount != 6 {
		t.Fatalf("expected 6 installments, got %d", details.InstallmentCount)
	}
	if len(details.Installments) != 3 {
		t.Fatalf("rescheduling never adds installments, got %d", len(details.Installments))
	}
}

func TestUpdateGoalValidation(t *testing.T) {
	f := newFixture()
	created := f.createGoal(t, clockAt(2024, time.January, 1), "100.00", savings.FrequencyMonthly, 3)

	_, err := f.service(clockAt(2024, time.January, 1)).UpdateGoal(context.Background(), &savings.UpdateGoalRequest{
		Id:      created.Id,
		OwnerId: f.owner,
	})
	if !appErrors.IsValidationError(err) {
		t.Fatalf("expected validation error for missing frequency, got %v", err)
	}
	if f.repo.goals[created.Id].Version != 1 {
		t.Fatal("goal should not be saved")
	}
}

func TestDeleteGoalRemovesInstallments(t *testing.T) {
	f := newFixture()
	created := f.createGoal(t, clockAt(2024, time.January, 1), "100.00", savings.FrequencyMonthly, 3)
	other := f.createGoal(t, clockAt(2024, time.January, 1), "50.00", savings.FrequencyWeekly, 2)

	if err := f.service(clockAt(2024, time.January, 1)).DeleteGoal(context.Background(), created.Id, f.owner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.repo.goals[created.Id]; ok {
		t.Fatal("goal still stored")
	}
	if len(f.repo.storedInstallments(created.Id)) != 0 {
		t.Fatal("installments still stored")
	}
	if len(f.repo.storedInstallments(other.Id)) != 2 {
		t.Fatal("other goal's installments should remain")
	}

	err := f.service(clockAt(2024, time.January, 1)).DeleteGoal(context.Background(), other.Id, ulid.Make())
	if !errors.Is(err, appErrors.ErrSavingsGoalNotFound) {
		t.Fatalf("expected goal not found, got %v", err)
	}
}

func TestListGoalsByStatus(t *testing.T) {
	f := newFixture()
	clock := clockAt(2024, time.January, 1)
	paid := f.createGoal(t, clock, "100.00", savings.FrequencyMonthly, 3)
	f.createGoal(t, clock, "50.00", savings.FrequencyMonthly, 2)
	if _, err := f.service(clock).RegisterContribution(context.Background(), &savings.ContributionRequest{
		GoalId: paid.Id, OwnerId: f.owner, Amount: dec("33.33"),
	}); err != nil {
		t.Fatalf("contribution: %v", err)
	}

	active := savings.GoalActive
	views, total, err := f.service(clock).ListGoals(context.Background(), f.owner, &active, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(views) != 1 || views[0].Id != paid.Id {
		t.Fatalf("expected only the active goal, got %d", total)
	}
	if views[0].CategoryName != "Viagem" || views[0].InstallmentTotal != 3 {
		t.Fatalf("unexpected view %+v", views[0])
	}

	all, total, err := f.service(clock).ListGoals(context.Background(), f.owner, nil, nil)
	if err != nil || total != 2 || len(all) != 2 {
		t.Fatalf("expected 2 goals, got %d (%v)", total, err)
	}

	bogus := savings.GoalStatus("PAUSED")
	if _, _, err := f.service(clock).ListGoals(context.Background(), f.owner, &bogus, nil); !appErrors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSearchGoalsByCategoryName(t *testing.T) {
	f := newFixture()
	clock := clockAt(2024, time.January, 1)
	created := f.createGoal(t, clock, "100.00", savings.FrequencyMonthly, 3)
	f.repo.categoryNames[created.CategoryId] = "Viagem"

	views, err := f.service(clock).SearchGoals(context.Background(), f.owner, "viag")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 || views[0].Id != created.Id {
		t.Fatalf("expected one match, got %d", len(views))
	}

	if _, err := f.service(clock).SearchGoals(context.Background(), f.owner, "   "); !appErrors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetGoalWithMissingCategory(t *testing.T) {
	f := newFixture()
	clock := clockAt(2024, time.January, 1)
	created := f.createGoal(t, clock, "100.00", savings.FrequencyMonthly, 3)
	f.categories.getRefFn = func(ctx context.Context, categoryID ulid.ULID) (*savings.CategoryRef, error) {
		return nil, appErrors.ErrCategoryNotFound
	}

	_, err := f.service(clock).GetGoal(context.Background(), created.Id, f.owner)
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != "CONFIGURATION_ERROR" {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestGetInstallmentScopedToGoal(t *testing.T) {
	f := newFixture()
	clock := clockAt(2024, time.January, 1)
	first := f.createGoal(t, clock, "100.00", savings.FrequencyMonthly, 3)
	second := f.createGoal(t, clock, "100.00", savings.FrequencyMonthly, 3)

	got, err := f.service(clock).GetInstallment(context.Background(), first.Id, first.Installments[1].Id, f.owner)
	if err != nil || got.Id != first.Installments[1].Id {
		t.Fatalf("expected installment, got %v", err)
	}

	_, err = f.service(clock).GetInstallment(context.Background(), first.Id, second.Installments[0].Id, f.owner)
	if !errors.Is(err, appErrors.ErrInstallmentNotFound) {
		t.Fatalf("expected installment not found, got %v", err)
	}
}

func TestGetGoalProgress(t *testing.T) {
	f := newFixture()
	clock := clockAt(2024, time.January, 1)
	created := f.createGoal(t, clock, "100.00", savings.FrequencyMonthly, 3)
	if _, err := f.service(clock).RegisterContribution(context.Background(), &savings.ContributionRequest{
		GoalId: created.Id, OwnerId: f.owner, Amount: dec("40.00"),
	}); err != nil {
		t.Fatalf("contribution: %v", err)
	}

	progress, err := f.service(clock).GetGoalProgress(context.Background(), created.Id, f.owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !progress.Percentage.Equal(dec("40")) || !progress.Remaining.Equal(dec("60")) {
		t.Fatalf("unexpected progress %s%% remaining %s", progress.Percentage, progress.Remaining)
	}
	if progress.Contributed != 1 || progress.Pending != 2 || progress.Lost != 0 {
		t.Fatalf("unexpected counts %d/%d/%d", progress.Contributed, progress.Pending, progress.Lost)
	}
}
