package errors

import (
	"reflect"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	// Declared upfront so that results can be compared by identity.
	var (
		emptyOwner      = Field("Owner", ErrEmpty, "required")
		badOwner        = Field("Owner", ErrInput, "address: %d bytes", 3)
		noTicker        = Field("Ticker", ErrCurrency, "invalid ticker")
		transferSrc     = Field("Source", Append(badOwner, Append(noTicker, ErrState)), "source account")
		wrappedTicker   = Field("Ticker", noTicker, "outer")
		accountMismatch = Field("Destination", ErrUnauthorized, "not the escrow account")
	)

	cases := map[string]struct {
		err   error
		field string
		want  []error
	}{
		"single error": {
			err:   emptyOwner,
			field: "Owner",
			want:  []error{emptyOwner},
		},
		"appended errors for the same field": {
			err:   Append(emptyOwner, badOwner),
			field: "Owner",
			want:  []error{emptyOwner, badOwner},
		},
		"field holding a multi error": {
			err:   transferSrc,
			field: "Source",
			want:  []error{transferSrc},
		},
		"nested field is found": {
			err:   transferSrc,
			field: "Ticker",
			want:  []error{noTicker},
		},
		"nil error": {
			err:   nil,
			field: "Owner",
			want:  nil,
		},
		"plain error": {
			err:   ErrUnauthorized,
			field: "Owner",
			want:  nil,
		},
		"other field": {
			err:   accountMismatch,
			field: "Source",
			want:  nil,
		},
		"wrapped field error": {
			err:   Wrap(Wrap(badOwner, "inner"), "outer"),
			field: "Owner",
			want:  []error{badOwner},
		},
		"wrapped multi error": {
			err:   Wrap(Wrap(transferSrc, "inner"), "outer"),
			field: "Owner",
			want:  []error{badOwner},
		},
		"wrapped multi error without match": {
			err:   Wrap(transferSrc, "outer"),
			field: "Memo",
			want:  nil,
		},
		"field nested in other fields": {
			err:   Field("Deposit", Field("Source", noTicker, "src"), "deposit"),
			field: "Ticker",
			want:  []error{noTicker},
		},
		"same field nested returns the outermost": {
			err:   wrappedTicker,
			field: "Ticker",
			want:  []error{wrappedTicker},
		},
		"many results": {
			err: Wrap(Append(
				Wrap(emptyOwner, "a"),
				Wrap(accountMismatch, "b"),
				Wrap(badOwner, "c"),
			), "outer"),
			field: "Owner",
			want:  []error{emptyOwner, badOwner},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.err, tc.field)
			if !reflect.DeepEqual(tc.want, got) {
				t.Logf("want: %#v", tc.want)
				t.Logf(" got: %#v", got)
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestFieldKeepsCode(t *testing.T) {
	if err := Field("Owner", nil, "required"); err != nil {
		t.Fatalf("nil error must not be attributed, got %v", err)
	}
	if err := AppendField(nil, "Owner", nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	err := AppendField(nil, "Amount", ErrAmount)
	if !ErrAmount.Is(err) {
		t.Fatalf("want amount error, got %v", err)
	}
	code, log := Info(err, false)
	if code != ErrAmount.Code() {
		t.Fatalf("want code %d, got %d", ErrAmount.Code(), code)
	}
	if want := `field "Amount": invalid amount`; log != want {
		t.Fatalf("want %q log, got %q", want, log)
	}
}
