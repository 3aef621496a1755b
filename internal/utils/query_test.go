package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryList(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{"absent", "", nil},
		{"comma separated", "name=T50,%20CT_25", []string{"T50", "CT_25"}},
		{"repeated", "name=T50&name=CT_25", []string{"T50", "CT_25"}},
		{"mixed with blanks", "name=T50,,&name=CT_25,T75", []string{"T50", "CT_25", "T75"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, ParseQueryList(q, "name"))
		})
	}
}
