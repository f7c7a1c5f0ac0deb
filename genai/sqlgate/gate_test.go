package sqlgate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	cases := []struct {
		desc           string
		sql            string
		cfg            PolicyConfig
		expectValid    bool
		expectErr      bool
		expectLimit    int
		expectSanitize string
	}{
		{
			desc:           "no limit gets one injected",
			sql:            "SELECT id FROM users",
			cfg:            PolicyConfig{MaxRows: 100},
			expectValid:    true,
			expectLimit:    100,
			expectSanitize: "SELECT id FROM users LIMIT 100",
		},
		{
			desc:        "literal limit above maxRows is capped",
			sql:         "SELECT id FROM users LIMIT 500",
			cfg:         PolicyConfig{MaxRows: 100},
			expectValid: true,
			expectLimit: 100,
		},
		{
			desc:        "limit 0 is accepted verbatim",
			sql:         "SELECT id FROM users LIMIT 0",
			cfg:         PolicyConfig{MaxRows: 100},
			expectValid: true,
			expectLimit: 0,
		},
		{
			desc:        "two statements rejected",
			sql:         "SELECT 1; SELECT 2",
			cfg:         PolicyConfig{MaxRows: 100},
			expectValid: false,
		},
		{
			desc:        "non-select statement fails to parse as a query",
			sql:         "UPDATE users SET active = 1",
			cfg:         PolicyConfig{MaxRows: 100},
			expectErr:   true,
		},
		{
			desc:        "table not in allowlist",
			sql:         "SELECT id FROM secrets",
			cfg:         PolicyConfig{MaxRows: 100, AllowedTables: []string{"users"}},
			expectValid: false,
		},
		{
			desc:        "forbidden function text scan",
			sql:         "SELECT pg_sleep(5)",
			cfg:         PolicyConfig{MaxRows: 100, ForbiddenFunctions: DefaultForbiddenFunctions()},
			expectValid: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			res, err := Check(tc.sql, tc.cfg)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, tc.expectValid, res.Valid)
			if tc.expectValid {
				assert.Equal(t, tc.expectLimit, res.EffectiveLimit)
				if tc.expectSanitize != "" {
					assert.Equal(t, tc.expectSanitize, res.SanitizedSql)
				}
			}
		})
	}
}

func TestCountStatements(t *testing.T) {
	assert.Equal(t, 1, countStatements("SELECT 1"))
	assert.Equal(t, 2, countStatements("SELECT 1; SELECT 2"))
	assert.Equal(t, 1, countStatements("SELECT 1;"))
	assert.Equal(t, 1, countStatements("SELECT ';' as x"))
}
