package resource

import "testing"

func TestParseHostname(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"simple fqdn", "web-01.example.com", false},
		{"single label", "localhost", false},
		{"empty", "", true},
		{"too long", repeatString("a", 254), true},
		{"label too long", repeatString("a", 64) + ".com", true},
		{"leading hyphen", "-web01.example.com", true},
		{"trailing hyphen", "web01-.example.com", true},
		{"numeric tld", "web01.123", true},
		{"invalid char", "web_01.example.com", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseHostname(tc.in)
			if (err != nil) != tc.wantErr {
				t.Errorf("ParseHostname(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
		})
	}
}

func repeatString(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
