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
		log.Println("creating tokens table...")
		if err := mghelper.CreateSchema(ctx, db, &tokenstore.TokenDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &tokenstore.TokenDao{}, "requester_address", "symbol", "status")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping tokens table...")
		return mghelper.DropTables(ctx, db, &tokenstore.TokenDao{})
	})
}
