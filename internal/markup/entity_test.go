package markup

import "testing"

func TestDecodeEntities_Named(t *testing.T) {
	cases := map[string]string{
		"&amp;":  "&",
		"&apos;": "'",
		"&gt;":   ">",
		"&lt;":   "<",
		"&quot;": `"`,
		"Tom &amp; Jerry &lt;3": "Tom & Jerry <3",
	}
	for in, want := range cases {
		if got := DecodeEntities(in); got != want {
			t.Fatalf("DecodeEntities(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeEntities_Numeric(t *testing.T) {
	cases := map[string]string{
		"&#8217;":   "’",
		"&#x2022;":  "•",
		"&#X2022;":  "•",
		"&#65;&#66;": "AB",
		"caf&#xe9;": "café",
	}
	for in, want := range cases {
		if got := DecodeEntities(in); got != want {
			t.Fatalf("DecodeEntities(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeEntities_UnknownNamedPassesThrough(t *testing.T) {
	in := "a &nbsp; b &rsquo; c"
	if got := DecodeEntities(in); got != in {
		t.Fatalf("expected %q unchanged, got %q", in, got)
	}
}

func TestDecodeEntities_MalformedNumericLeftVerbatim(t *testing.T) {
	for _, in := range []string{
		"&#99999999999999999999;",
		"&#x110000;",
		"&#xD800;",
		"&#0;",
		"&#;",
		"&#xZZ;",
		"& amp;",
		"&amp",
	} {
		if got := DecodeEntities(in); got != in {
			t.Fatalf("DecodeEntities(%q) = %q, want verbatim", in, got)
		}
	}
}

func TestDecodeEntities_IdempotentWithoutAmpersand(t *testing.T) {
	for _, in := range []string{"", "plain text", "• bullet", "a < b > c \"q\""} {
		once := DecodeEntities(in)
		if once != in || DecodeEntities(once) != once {
			t.Fatalf("expected %q to be a fixed point, got %q", in, once)
		}
	}
}

func TestDecodeEntities_SinglePass(t *testing.T) {
	if got := DecodeEntities("&amp;lt;"); got != "&lt;" {
		t.Fatalf("expected a single decoding pass, got %q", got)
	}
}
