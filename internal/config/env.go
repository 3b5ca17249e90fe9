package config

import (
	"os"
	"strconv"
)

// EnvPrefix is the prefix of every environment variable ApplyEnv reads.
const EnvPrefix = "UNDOSTACK_"

// ApplyEnv overrides settings from the environment:
//
//	UNDOSTACK_MAX_UNITS         history.max_units
//	UNDOSTACK_MIN_TRANSACTIONS  history.min_transactions
//	UNDOSTACK_LOG_LEVEL         logging.level
//	UNDOSTACK_LOG_FORMAT        logging.format
//
// Empty values are treated as set.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		name   string
		target *int
	}{
		{EnvPrefix + "MAX_UNITS", &c.History.MaxUnits},
		{EnvPrefix + "MIN_TRANSACTIONS", &c.History.MinTransactions},
	}
	for _, v := range ints {
		val, ok := lookup(v.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return &ParseError{Path: "$" + v.name, Message: "expected an integer", Err: err}
		}
		*v.target = n
	}

	if val, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.Logging.Level = val
	}
	if val, ok := lookup(EnvPrefix + "LOG_FORMAT"); ok {
		c.Logging.Format = val
	}
	return nil
}
