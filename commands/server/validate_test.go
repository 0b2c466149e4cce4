package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
	"github.com/stretchr/testify/require"
)

// optionInitializer requires the "required" option to be a string.
type optionInitializer struct{}

func (optionInitializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var v string
	if err := opts.ReadOptions("required", &v); err != nil {
		return err
	}
	if v == "" {
		return errors.Wrap(errors.ErrEmpty, "required")
	}
	return nil
}

func TestValidateGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "supersigd-validate")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	cases := map[string]struct {
		content string
		wantErr *errors.Error
	}{
		"valid": {
			content: `{"app_state": {"required": "yes"}}`,
		},
		"missing option": {
			content: `{"app_state": {}}`,
			wantErr: errors.ErrEmpty,
		},
		"wrong option type": {
			content: `{"app_state": {"required": 1}}`,
			wantErr: errors.ErrInput,
		},
		"not json": {
			content: `app_state`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			path := filepath.Join(dir, testName+".json")
			require.NoError(t, ioutil.WriteFile(path, []byte(tc.content), 0600))
			if err := ValidateGenesis(optionInitializer{}, []string{path}); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}

	missing := filepath.Join(dir, "missing.json")
	if err := ValidateGenesis(optionInitializer{}, []string{missing}); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
