package launchdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/agentmint/launchpad/pkg/pgutil/migrations"
	"github.com/agentmint/launchpad/pkg/tokenstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating fee_claims table...")
		if err := mghelper.CreateSchema(ctx, db, &tokenstore.FeeClaimDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &tokenstore.FeeClaimDao{}, "token_address")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping fee_claims table...")
		return mghelper.DropTables(ctx, db, &tokenstore.FeeClaimDao{})
	})
}
