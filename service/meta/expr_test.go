package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnvExpr(t *testing.T) {
	t.Setenv("APPROVAL_REGION", "us-east")
	t.Setenv("APPROVAL_TIER", "prod")

	type testCase struct {
		name   string
		input  string
		expect string
	}
	testCases := []testCase{
		{
			name:   "no expression",
			input:  "plain text",
			expect: "plain text",
		},
		{
			name:   "single expression",
			input:  "region: ${env.APPROVAL_REGION}",
			expect: "region: us-east",
		},
		{
			name:   "repeated and mixed",
			input:  "${env.APPROVAL_REGION}/${env.APPROVAL_TIER}/${env.APPROVAL_REGION}",
			expect: "us-east/prod/us-east",
		},
		{
			name:   "unset variable expands empty",
			input:  "x=${env.APPROVAL_UNSET_KEY}!",
			expect: "x=!",
		},
		{
			name:   "empty key expands empty",
			input:  "a ${env.} b",
			expect: "a  b",
		},
		{
			name:   "missing closing brace stays literal",
			input:  "a ${env.APPROVAL_REGION b",
			expect: "a ${env.APPROVAL_REGION b",
		},
		{
			name:   "broken key keeps marker and expands the nested expression",
			input:  "a ${env.bad key ${env.APPROVAL_TIER} b",
			expect: "a ${env.bad key prod b",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, expandEnvExpr(tc.input))
		})
	}
}
