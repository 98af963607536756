package module

import (
	"aardsync/internal/platform/config"
	"aardsync/internal/services/importer/domain"
	"aardsync/internal/services/importer/service"
)

// Options are the importer settings read from CORE_IMPORT_*
type Options struct {
	Service service.Config
	Source  string
}

// FromConfig reads run tuning with the CORE_IMPORT_ prefix
func FromConfig(cfg config.Conf) Options {
	ic := cfg.Prefix("CORE_IMPORT_")
	return Options{
		Service: service.Config{
			Chunk:    ic.MayInt("CHUNK", domain.DefaultChunk),
			ErrorLog: ic.MayInt("ERROR_LOG", domain.DefaultErrorLog),
		},
		Source: ic.MayEnum("SOURCE", SourceRaw, SourceRaw, SourceContents),
	}
}
