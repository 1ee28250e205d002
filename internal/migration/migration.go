package migration

import (
	churndomain "github.com/retainflow/retainflow/internal/churn/domain"
	"github.com/retainflow/retainflow/internal/emailqueue"
	engagementdomain "github.com/retainflow/retainflow/internal/engagement/domain"
	integrationdomain "github.com/retainflow/retainflow/internal/integration/domain"
	offerdomain "github.com/retainflow/retainflow/internal/offer/domain"
	userdomain "github.com/retainflow/retainflow/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Models is the full set of persisted types, in dependency order.
func Models() []any {
	return []any{
		&userdomain.User{},
		&engagementdomain.MessageEvent{},
		&engagementdomain.SubscriptionEvent{},
		&churndomain.ChurnPrediction{},
		&offerdomain.RetentionOffer{},
		&emailqueue.EmailLog{},
		&integrationdomain.Integration{},
	}
}

func Run(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

var Module = fx.Module("migration",
	fx.Invoke(Run),
)
