package accounts

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/caresync-app/caresync-api/internal/audit"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	"github.com/caresync-app/caresync-api/internal/imagestore"
	"github.com/caresync-app/caresync-api/internal/policy"
)

type DeleteAccount struct {
	accounts account.Store
	images   imagestore.Store
	audit    *audit.Dispatcher
	log      *logrus.Logger
}

func NewDeleteAccount(
	accounts account.Store,
	images imagestore.Store,
	audit *audit.Dispatcher,
	log *logrus.Logger,
) *DeleteAccount {
	return &DeleteAccount{
		accounts: accounts,
		images:   images,
		audit:    audit,
		log:      log,
	}
}

// Execute removes the account and every appointment referencing it in
// one transaction, then cleans the stored profile image best-effort.
func (uc *DeleteAccount) Execute(
	ctx context.Context,
	callerRole account.Role,
	callerID uint,
	targetRole account.Role,
	targetID uint,
) error {

	if err := policy.CanManageAccount(callerRole, callerID, targetRole, targetID); err != nil {
		return err
	}

	target, err := uc.accounts.FindByID(ctx, targetRole, targetID)
	if err != nil {
		return err
	}

	if err := uc.accounts.DeleteCascade(ctx, targetRole, targetID); err != nil {
		return err
	}

	// Image cleanup is a side channel, never a reason to fail a delete
	// that already committed.
	if key := target.ImageKey(); key != "" {
		if err := uc.images.Delete(ctx, key); err != nil {
			uc.log.WithError(err).WithField("key", key).Warn("orphaned profile image")
		}
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &callerID,
		ActorRole: string(callerRole),
		Action:    "account_deleted",
		Entity:    string(targetRole),
		EntityID:  &targetID,
	})

	return nil
}
