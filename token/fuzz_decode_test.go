package token

import (
	"strings"
	"testing"
)

// FuzzDecode exercises the wire decoder with arbitrary strings.
// Goal: no panics; invalid inputs must be rejected, and anything accepted
// must carry a structurally complete claim set.
func FuzzDecode(f *testing.F) {
	input, err := Encode(testHeader(), testClaims())
	if err != nil {
		f.Fatal(err)
	}
	f.Add(Assemble(input, []byte("seed-signature")))
	f.Add("")
	f.Add("a.b.c")
	f.Add("..")
	f.Add(strings.Repeat(".", 16))
	f.Add("eyJhbGciOiJub25lIn0.e30.")

	f.Fuzz(func(t *testing.T, wire string) {
		d, err := Decode(wire)
		if err != nil {
			if d != nil {
				t.Fatal("decode returned partial result alongside error")
			}
			return
		}
		if d.Claims.Subject == "" || d.Claims.TokenID == "" {
			t.Fatal("decode accepted incomplete claim set")
		}
		if d.Claims.ExpiresAt <= d.Claims.IssuedAt {
			t.Fatal("decode accepted exp <= iat")
		}
		if !strings.HasPrefix(wire, d.SigningInput) {
			t.Fatal("signing input is not a prefix of the wire string")
		}
	})
}
