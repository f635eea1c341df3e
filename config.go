package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrContentDirRequired      = runtimeconfig.ErrContentDirRequired
	ErrBuildOutputDirRequired  = runtimeconfig.ErrBuildOutputDirRequired
	ErrSiteBaseURLRequired     = runtimeconfig.ErrSiteBaseURLRequired
	ErrBuildWorkersInvalid     = runtimeconfig.ErrBuildWorkersInvalid
	ErrArchiveDriverUnknown    = runtimeconfig.ErrArchiveDriverUnknown
	ErrArchiveDSNRequired      = runtimeconfig.ErrArchiveDSNRequired
	ErrSchemaFeatureRequired   = runtimeconfig.ErrSchemaFeatureRequired
	ErrCacheFeatureRequired    = runtimeconfig.ErrCacheFeatureRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	ContentConfig  = runtimeconfig.ContentConfig
	RenderConfig   = runtimeconfig.RenderConfig
	SiteConfig     = runtimeconfig.SiteConfig
	RoutesConfig   = runtimeconfig.RoutesConfig
	BuildConfig    = runtimeconfig.BuildConfig
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	SchemaConfig   = runtimeconfig.SchemaConfig
	CommandsConfig = runtimeconfig.CommandsConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
	Features       = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
