package argcodec

import (
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"no-spaces",
		"force-app/main/default/classes",
		"My Project/force-app",
		"  leading and trailing  ",
		"a b c d",
		"tabs\tstay\tput",
	}
	for _, s := range cases {
		if got := Decode(Encode(s)); got != s {
			t.Errorf("Decode(Encode(%q)) = %q, want %q", s, got, s)
		}
	}
}

func TestEncodeRemovesSpaces(t *testing.T) {
	encoded := Encode("My Project/force-app")
	if strings.Contains(encoded, " ") {
		t.Errorf("Encode left a literal space in %q", encoded)
	}
	if len(strings.Fields("deploy -p "+encoded)) != 3 {
		t.Errorf("encoded argument did not survive whitespace split: %q", encoded)
	}
}

func TestDecodePlainTokenUnchanged(t *testing.T) {
	if got := Decode("force:source:deploy"); got != "force:source:deploy" {
		t.Errorf("Decode changed a plain token: %q", got)
	}
}
