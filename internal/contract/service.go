// AngelaMos | 2026
// service.go

package contract

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/epic-events/internal/audit"
	"github.com/carterperez-dev/epic-events/internal/auth"
	"github.com/carterperez-dev/epic-events/internal/client"
	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
)

// TxRepositories binds the repositories used by signing to one
// transaction.
type TxRepositories func(tx core.DBTX) (Repository, client.Repository)

// SQLRepositories is the TxRepositories used in production.
func SQLRepositories(tx core.DBTX) (Repository, client.Repository) {
	return NewRepository(tx), client.NewRepository(tx)
}

type Service struct {
	repo     Repository
	clients  client.Repository
	tx       core.Transactor
	txRepos  TxRepositories
	audit    audit.Recorder
	validate *validator.Validate
}

func NewService(
	repo Repository,
	clients client.Repository,
	tx core.Transactor,
	txRepos TxRepositories,
	recorder audit.Recorder,
	validate *validator.Validate,
) *Service {
	if txRepos == nil {
		txRepos = SQLRepositories
	}
	if recorder == nil {
		recorder = audit.Nop{}
	}
	if validate == nil {
		validate = core.NewValidator()
	}
	return &Service{
		repo:     repo,
		clients:  clients,
		tx:       tx,
		txRepos:  txRepos,
		audit:    recorder,
		validate: validate,
	}
}

var errNonFinite = core.ValidationError("not_a_number", "amount must be a finite number")

func ErrOverPayment(amount float64) *core.AppError {
	return core.NewError(
		core.KindOverPayment,
		"over_payment",
		fmt.Sprintf("paid amount cannot exceed the contract amount (%.2f)", amount),
	)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateContractRequest,
) (*Contract, error) {
	req.Normalize()

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, errNonFinite
	}
	if req.Amount < 0 {
		return nil, core.ValidationError("negative_amount", "amount cannot be negative")
	}
	if err := core.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	owner, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("client")
		}
		return nil, s.storeFailure(ctx, "create contract", err, map[string]any{
			"client_id": req.ClientID,
		})
	}

	contract := &Contract{
		Title:        req.Title,
		ClientID:     req.ClientID,
		Status:       false,
		Amount:       req.Amount,
		PaidAmount:   0,
		ClientName:   owner.FullName,
		CommercialID: owner.CommercialID,
	}

	if err := s.repo.Create(ctx, contract); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("client")
		}
		return nil, s.storeFailure(ctx, "create contract", err, map[string]any{
			"client_id": req.ClientID,
		})
	}

	return contract, nil
}

// Update signs the contract and/or records a payment.
//
// Signing an unsigned contract whose client has no commercial assigns the
// signing Commercial caller to that client in the same transaction.
func (s *Service) Update(
	ctx context.Context,
	caller *auth.Session,
	id int64,
	req UpdateContractRequest,
) (*Contract, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("contract")
		}
		return nil, s.storeFailure(ctx, "update contract", err, map[string]any{
			"contract_id": id,
		})
	}

	if caller.Is(department.Commercial) &&
		current.CommercialID != nil && *current.CommercialID != caller.UserID {
		return nil, core.ForbiddenError(
			"you can only update contracts of your own clients",
		)
	}

	var changes []core.Change

	signing := req.Sign && !current.Status
	if signing {
		changes = append(changes, core.Change{Column: "status", Value: true})
	}

	if req.PaidAmount != nil && (math.IsNaN(*req.PaidAmount) || math.IsInf(*req.PaidAmount, 0)) {
		return nil, errNonFinite
	}
	if req.PaidAmount != nil && *req.PaidAmount > 0 {
		if *req.PaidAmount > current.Amount {
			return nil, ErrOverPayment(current.Amount)
		}
		changes = append(changes, core.Change{Column: "paid_amount", Value: *req.PaidAmount})
	}

	if len(changes) == 0 {
		return nil, core.EmptyPatchError()
	}

	claimClient := signing && current.CommercialID == nil &&
		caller.Is(department.Commercial)

	err = s.tx.InTx(ctx, func(tx core.DBTX) error {
		contracts, clients := s.txRepos(tx)

		if err := contracts.Update(ctx, id, changes); err != nil {
			return err
		}

		if claimClient {
			if err := clients.AssignCommercial(ctx, current.ClientID, caller.UserID); err != nil {
				return fmt.Errorf("assign commercial: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("contract")
		}
		if errors.Is(err, core.ErrOverPayment) {
			return nil, ErrOverPayment(current.Amount)
		}
		return nil, s.storeFailure(ctx, "update contract", err, map[string]any{
			"contract_id":   id,
			"update_fields": strings.Join(core.Columns(changes), ","),
		})
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeFailure(ctx, "update contract", err, map[string]any{
			"contract_id": id,
		})
	}

	if signing {
		s.audit.ContractSigned(ctx, audit.ContractSigned{
			ContractID: id,
			ClientName: updated.ClientName,
			Amount:     updated.Amount,
			SignedBy:   caller.Username,
		})
	}

	return updated, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Contract, error) {
	return s.list(ctx, FilterAll)
}

func (s *Service) ListUnsigned(ctx context.Context) ([]Contract, error) {
	return s.list(ctx, FilterUnsigned)
}

func (s *Service) ListUnpaid(ctx context.Context) ([]Contract, error) {
	return s.list(ctx, FilterUnpaid)
}

// Get is used by event scheduling to check the contract state.
func (s *Service) Get(ctx context.Context, id int64) (*Contract, error) {
	contract, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("contract")
		}
		return nil, s.storeFailure(ctx, "get contract", err, map[string]any{
			"contract_id": id,
		})
	}
	return contract, nil
}

func (s *Service) list(ctx context.Context, filter Filter) ([]Contract, error) {
	contracts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.storeFailure(ctx, "list contracts", err, nil)
	}
	return contracts, nil
}

func (s *Service) storeFailure(
	ctx context.Context,
	op string,
	err error,
	fields map[string]any,
) error {
	if core.IsAppError(err) {
		return err
	}

	if fields == nil {
		fields = map[string]any{}
	}
	fields["action"] = strings.ReplaceAll(op, " ", "_")
	s.audit.Exception(ctx, err, fields)

	return core.StoreFailureError(op, err)
}
