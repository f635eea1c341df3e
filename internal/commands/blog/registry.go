package blogcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the blog command handlers produced by RegisterBlogCommands.
type HandlerSet struct {
	Build *BuildSiteHandler
	Sync  *SyncArchiveHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	buildHandlerOpts []commands.HandlerOption[BuildSiteCommand]
	syncHandlerOpts  []commands.HandlerOption[SyncArchiveCommand]
}

// WithBuildHandlerOptions forwards options to the BuildSiteHandler constructor.
func WithBuildHandlerOptions(opts ...commands.HandlerOption[BuildSiteCommand]) Option {
	return func(cfg *options) {
		cfg.buildHandlerOpts = append(cfg.buildHandlerOpts, opts...)
	}
}

// WithSyncHandlerOptions forwards options to the SyncArchiveHandler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncArchiveCommand]) Option {
	return func(cfg *options) {
		cfg.syncHandlerOpts = append(cfg.syncHandlerOpts, opts...)
	}
}

// RegisterBlogCommands builds the blog command handlers and registers them with
// the provided registry. A HandlerSet containing the constructed handlers is
// returned so callers can wire additional integrations (dispatcher, cron) as
// needed.
func RegisterBlogCommands(reg CommandRegistry, service interfaces.BlogService, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("blog command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	buildHandler := NewBuildSiteHandler(service, commands.CommandLogger(provider, "site"), gates, cfg.buildHandlerOpts...)
	syncHandler := NewSyncArchiveHandler(service, commands.CommandLogger(provider, "archive"), gates, cfg.syncHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(buildHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(syncHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Build: buildHandler,
		Sync:  syncHandler,
	}, nil
}

// RegisterSyncCron wires the provided sync handler into a cron registrar using
// the supplied command configuration and message payload. The handler is
// executed with a background context.
func RegisterSyncCron(reg CronRegistrar, handler *SyncArchiveHandler, cfg command.HandlerConfig, msg SyncArchiveCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
