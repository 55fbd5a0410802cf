package otp

import (
	"errors"
	"testing"
	"time"
)

func TestGenerate_RFC6238VectorsSHA1(t *testing.T) {
	// RFC 6238 appendix B, truncated to six digits.
	secret := []byte("12345678901234567890")
	tests := []struct {
		ts   int64
		want Code
	}{
		{ts: 59, want: 287082},
		{ts: 1111111109, want: 81804},
		{ts: 1111111111, want: 50471},
		{ts: 1234567890, want: 5924},
		{ts: 2000000000, want: 279037},
		{ts: 20000000000, want: 353130},
	}

	for _, tt := range tests {
		got, err := Generate(secret, 30, tt.ts)
		if err != nil {
			t.Fatalf("Generate at %d: unexpected error: %v", tt.ts, err)
		}
		if got != tt.want {
			t.Fatalf("Generate at %d = %s, want %s", tt.ts, got, tt.want)
		}
		if !Verify(secret, tt.want, 30, tt.ts) {
			t.Fatalf("Verify at %d rejected the RFC code %s", tt.ts, tt.want)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	secret := []byte("S1")

	first, err := Generate(secret, 300, 1_000_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for range 10 {
		got, err := Generate(secret, 300, 1_000_000_000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != first {
			t.Fatalf("Generate is not deterministic: %s != %s", got, first)
		}
	}
}

func TestGenerate_Range(t *testing.T) {
	secret := []byte("range-secret")
	for ts := int64(0); ts < 200_000; ts += 37 {
		got, err := Generate(secret, 7, ts)
		if err != nil {
			t.Fatalf("unexpected error at %d: %v", ts, err)
		}
		if got >= maxCode {
			t.Fatalf("code %d at %d is out of range", got, ts)
		}
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		secret  []byte
		period  uint
		ts      int64
		wantErr error
	}{
		{name: "empty secret", secret: nil, period: 30, ts: 1, wantErr: ErrEmptySecret},
		{name: "zero period", secret: []byte("s"), period: 0, ts: 1, wantErr: ErrInvalidPeriod},
		{name: "negative timestamp", secret: []byte("s"), period: 30, ts: -1, wantErr: ErrInvalidTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := Generate(tt.secret, tt.period, tt.ts)

			// Assert
			if !errors.Is(err, ErrCodeGeneration) {
				t.Fatalf("error = %v, want ErrCodeGeneration", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if Verify(tt.secret, 0, tt.period, tt.ts) {
				t.Fatal("Verify must be false for invalid input")
			}
		})
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	secret := []byte("round-trip")
	for _, period := range []uint{1, 30, 300, 86400} {
		for _, ts := range []int64{0, 59, 1_000_000_000, 1_700_000_123} {
			code, err := Generate(secret, period, ts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !Verify(secret, code, period, ts) {
				t.Fatalf("Verify(Generate(%d, %d)) = false", period, ts)
			}
		}
	}
}

func TestVerify_WindowBoundary(t *testing.T) {
	secret := []byte("S1")
	const period uint = 300

	tests := []struct {
		name string
		t1   int64
		t2   int64
		want bool
	}{
		{name: "same instant", t1: 1_000_000_000, t2: 1_000_000_000, want: true},
		{name: "start and end of window", t1: 999_999_900, t2: 1_000_000_199, want: true},
		{name: "last second then next window", t1: 1_000_000_199, t2: 1_000_000_200, want: false},
		{name: "previous window", t1: 1_000_000_200, t2: 1_000_000_199, want: false},
		{name: "far later", t1: 1_000_000_000, t2: 1_000_900_000, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			sameWindow := Window(period, tt.t1) == Window(period, tt.t2)
			if sameWindow != tt.want {
				t.Fatalf("bad fixture: same window = %v", sameWindow)
			}
			code, err := Generate(secret, period, tt.t1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Act
			got := Verify(secret, code, period, tt.t2)

			// Assert
			if got != tt.want {
				t.Fatalf("Verify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerify_LargeTimestampsKeepWindowsApart(t *testing.T) {
	// Arrange
	secret := []byte("S1")
	t1 := int64(1) << 53
	t2 := t1 + 1
	if Window(1, t1) == Window(1, t2) {
		t.Fatalf("bad fixture: %d and %d share a window", t1, t2)
	}

	// Act
	c1, err := Generate(secret, 1, t1)
	if err != nil {
		t.Fatalf("Generate at %d: unexpected error: %v", t1, err)
	}
	c2, err := Generate(secret, 1, t2)
	if err != nil {
		t.Fatalf("Generate at %d: unexpected error: %v", t2, err)
	}

	// Assert
	if c1 == c2 {
		t.Fatalf("adjacent windows produced the same code %s", c1)
	}
	if !Verify(secret, c1, 1, t1) {
		t.Fatal("code must verify in its own window")
	}
	if Verify(secret, c1, 1, t2) {
		t.Fatal("code must not verify in the next window")
	}
}

func TestVerify_ConcreteScenario(t *testing.T) {
	secret := []byte("S1")

	code, err := Generate(secret, 300, 1_000_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !Verify(secret, code, 300, 1_000_000_000) {
		t.Fatal("code must verify in its own window")
	}
	if Verify(secret, code, 300, 1_000_000_301) {
		t.Fatal("code must not verify in the next window")
	}
}

func TestVerify_RejectsOtherInputs(t *testing.T) {
	secret := []byte("S1")
	code, err := Generate(secret, 300, 1_000_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if Verify([]byte("S2"), code, 300, 1_000_000_000) {
		t.Fatal("code must not verify with another secret")
	}
	if Verify(secret, (code+1)%maxCode, 300, 1_000_000_000) {
		t.Fatal("a different code must not verify")
	}
	if Verify(secret, code+maxCode, 300, 1_000_000_000) {
		t.Fatal("a code above the digit range must not verify")
	}
}

func TestCode_String(t *testing.T) {
	tests := map[Code]string{0: "000000", 42: "000042", 5924: "005924", 999999: "999999"}
	for code, want := range tests {
		if got := code.String(); got != want {
			t.Fatalf("Code(%d).String() = %q, want %q", uint32(code), got, want)
		}
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in      string
		want    Code
		wantErr bool
	}{
		{in: "123456", want: 123456},
		{in: "005924", want: 5924},
		{in: "0", want: 0},
		{in: "1234567", want: 1234567},
		{in: "", wantErr: true},
		{in: "12a456", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "+1", wantErr: true},
		{in: "99999999999", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidCode) {
				t.Fatalf("ParseCode(%q) error = %v, want ErrInvalidCode", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseCode(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCode(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTOTP(t *testing.T) {
	// Arrange
	o, err := NewTOTP([]byte("S1"), 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	at := time.Unix(1_000_000_000, 0)

	// Act
	code, err := o.Generate(at)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := Generate([]byte("S1"), 300, 1_000_000_000)
	if code != want {
		t.Fatalf("TOTP.Generate = %s, want %s", code, want)
	}
	later := at.Add(time.Minute)
	if Window(300, later.Unix()) != Window(300, at.Unix()) {
		t.Fatalf("bad fixture: %d is not in the window of %d", later.Unix(), at.Unix())
	}
	if !o.Verify(code, later) {
		t.Fatal("code must verify later in the same window")
	}
	if !o.Verify(code, time.Unix(1_000_000_199, 0)) {
		t.Fatal("code must verify at the last second of its window")
	}
	if o.Verify(code, time.Unix(1_000_000_301, 0)) {
		t.Fatal("code must not verify in the next window")
	}
	if o.Period() != 300 {
		t.Fatalf("Period() = %d, want 300", o.Period())
	}
}

func TestNewTOTP_Invalid(t *testing.T) {
	if _, err := NewTOTP(nil, 30); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("error = %v, want ErrEmptySecret", err)
	}
	if _, err := NewTOTP([]byte("s"), 0); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("error = %v, want ErrInvalidPeriod", err)
	}
}

func TestNewTOTP_CopiesSecret(t *testing.T) {
	secret := []byte("S1")
	o, err := NewTOTP(secret, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, _ := o.Generate(time.Unix(1_000_000_000, 0))

	secret[0] = 'X'

	after, _ := o.Generate(time.Unix(1_000_000_000, 0))
	if before != after {
		t.Fatal("mutating the caller's slice changed the bound secret")
	}
}
