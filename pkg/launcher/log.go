package launcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agentmint/launchpad/pkg/launch"
	"github.com/agentmint/launchpad/pkg/ratelimit"
)

const serviceName = "LaunchService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the launch Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) Launch(ctx context.Context, req *launch.Request) (res *Result, err error) {
	start := time.Now()

	ls.logger.Info("Launch started",
		zap.String("service", serviceName),
		zap.String("method", "Launch"),
		zap.String("symbol", req.Symbol),
		zap.String("requester", req.Requester),
	)

	defer func() {
		duration := time.Since(start)

		if err != nil {
			ls.logger.Error("Launch failed",
				zap.String("service", serviceName),
				zap.String("method", "Launch"),
				zap.String("symbol", req.Symbol),
				zap.String("requester", req.Requester),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("Launch completed",
				zap.String("service", serviceName),
				zap.String("method", "Launch"),
				zap.String("symbol", res.Token.Symbol),
				zap.String("token_address", res.Token.Address),
				zap.String("tx_hash", res.Token.DeployTxHash),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.Launch(ctx, req)
}

func (ls *logService) Validate(ctx context.Context, req *launch.Request) (res *launch.ValidationResult, err error) {
	defer func() {
		if err != nil {
			ls.logger.Error("Validate failed",
				zap.String("service", serviceName),
				zap.String("method", "Validate"),
				zap.Error(err),
			)
		} else {
			ls.logger.Debug("Validate completed",
				zap.String("service", serviceName),
				zap.String("method", "Validate"),
				zap.String("symbol", req.Symbol),
				zap.Bool("valid", res.Valid),
				zap.Int("errors", len(res.Errors)),
				zap.Int("warnings", len(res.Warnings)),
			)
		}
	}()

	return ls.svc.Validate(ctx, req)
}

func (ls *logService) CheckRateLimit(ctx context.Context, requester string) (res *ratelimit.Result, err error) {
	defer func() {
		if err != nil {
			ls.logger.Error("CheckRateLimit failed",
				zap.String("service", serviceName),
				zap.String("method", "CheckRateLimit"),
				zap.String("requester", requester),
				zap.Error(err),
			)
		} else {
			ls.logger.Debug("CheckRateLimit completed",
				zap.String("service", serviceName),
				zap.String("method", "CheckRateLimit"),
				zap.String("requester", requester),
				zap.Bool("allowed", res.Allowed),
			)
		}
	}()

	return ls.svc.CheckRateLimit(ctx, requester)
}
