package github

import (
	"errors"
	"strconv"

	"aardsync/internal/core/forge"
	"aardsync/internal/platform/config"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func asStatus(err error, target **forge.StatusError) bool { return errors.As(err, target) }

func testConf() config.Conf { return config.New() }
