// SPDX-License-Identifier: MPL-2.0

package desktopentry

import "testing"

func TestStripFieldCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "single file code keeps spacing", in: "editor %f", want: "editor "},
		{name: "no codes", in: "firefox --new-window", want: "firefox --new-window"},
		{name: "multiple codes", in: "app %U --class %c %i", want: "app  --class  "},
		{name: "every code", in: "%f%F%u%U%d%D%n%N%i%c%k%v%m%%", want: ""},
		{name: "code glued to argument", in: "app --file=%f", want: "app --file="},
		{name: "escaped percent", in: "printf 100%%", want: "printf 100"},
		{name: "escaped percent before f is not escape aware", in: "echo %%f", want: "echo %"},
		{name: "unknown code kept", in: "app %x", want: "app %x"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StripFieldCodes(tt.in); got != tt.want {
				t.Errorf("StripFieldCodes(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripFieldCodes_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"editor %f",
		"env FOO=1 app %U --flag",
		"sh -c 'echo hi'",
		"",
	}
	for _, in := range inputs {
		once := StripFieldCodes(in)
		if twice := StripFieldCodes(once); twice != once {
			t.Errorf("stripping %q twice = %q, want %q", in, twice, once)
		}
	}
}

func TestFieldCodes_ReturnsCopy(t *testing.T) {
	t.Parallel()

	codes := FieldCodes()
	if len(codes) != 14 {
		t.Fatalf("expected 14 field codes, got %d", len(codes))
	}
	codes[0] = "mutated"
	if FieldCodes()[0] != "%f" {
		t.Error("FieldCodes must return a copy")
	}
}
