package runner

import (
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kbukum/yake/errors"
)

// BaseEnv snapshots the process environment and overlays the variables of an
// optional dotenv file. The process environment itself is not modified.
func BaseEnv(envFile string) ([]string, error) {
	base := os.Environ()
	if envFile == "" {
		return base, nil
	}
	values, err := godotenv.Read(envFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("env file", envFile)
		}
		return nil, errors.InvalidConfig("failed to read env file "+envFile, err)
	}
	// New keys are appended sorted so the child environment is stable.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	extra := make([]string, 0, len(values))
	for _, k := range keys {
		extra = append(extra, k+"="+values[k])
	}
	return overlay(base, extra), nil
}

// overlay applies KEY=VALUE assignments over base, last assignment winning.
// Keys already in base keep their position; new keys follow in order.
func overlay(base, assignments []string) []string {
	out := make([]string, 0, len(base)+len(assignments))
	index := make(map[string]int, len(base)+len(assignments))
	for _, list := range [][]string{base, assignments} {
		for _, kv := range list {
			key, _, _ := strings.Cut(kv, "=")
			if i, ok := index[key]; ok {
				out[i] = kv
				continue
			}
			index[key] = len(out)
			out = append(out, kv)
		}
	}
	return out
}
