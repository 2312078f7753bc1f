package infra

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
)

func TestParseMXValue(t *testing.T) {
	priority, host, err := parseMXValue("10 mail.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if priority != 10 || host != "mail.example.com" {
		t.Fatalf("unexpected parse: %v %q", priority, host)
	}

	for _, bad := range []string{"", "mail.example.com", "ten mail.example.com", "10 mail.example.com extra"} {
		if _, _, err := parseMXValue(bad); err == nil {
			t.Fatalf("expected %q to fail", bad)
		}
	}
}

func TestCAAValues(t *testing.T) {
	values := caaValues([]string{"amazon.com", "letsencrypt.org"})
	if len(*values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(*values))
	}
	for i, authority := range []string{"amazon.com", "letsencrypt.org"} {
		value := (*values)[i]
		if *value.Flag != 0 || value.Tag != awsroute53.CaaTag_ISSUE || *value.Value != authority {
			t.Fatalf("unexpected CAA value %d: %#v", i, value)
		}
	}
}

func TestMXValues(t *testing.T) {
	values := mxValues([]string{"10 mail.example.com", "20 backup.example.com"})
	if len(*values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(*values))
	}
	first := (*values)[0]
	if *first.Priority != 10 || *first.HostName != "mail.example.com" {
		t.Fatalf("unexpected MX value: %#v", first)
	}
}
