package drift

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/mossrock/siteplan/pkg/records"
)

// DefaultServer is a public resolver reachable from most networks. Drift
// checks should see what the world sees, not what a split-horizon corporate
// resolver answers.
const DefaultServer = "8.8.8.8:53"

const queryTimeout = 5 * time.Second

// Resolver is a Querier backed by direct DNS queries to a single server.
type Resolver struct {
	server string
	client *dns.Client
}

// NewResolver returns a Resolver querying the given "host:port" server. An
// empty server selects DefaultServer.
func NewResolver(server string) *Resolver {
	if server == "" {
		server = DefaultServer
	}
	return &Resolver{
		server: server,
		client: &dns.Client{Timeout: queryTimeout},
	}
}

func (r *Resolver) Lookup(ctx context.Context, fqdn string, recordType records.Type) ([]string, error) {
	queryType, err := wireType(recordType)
	if err != nil {
		return nil, err
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(fqdn), queryType)
	msg.RecursionDesired = true

	reply, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, fmt.Errorf("query %s %s against %s: %w", fqdn, recordType, r.server, err)
	}
	if reply.Truncated {
		// Retry over TCP; TXT sets in particular can overflow UDP.
		tcp := &dns.Client{Net: "tcp", Timeout: queryTimeout}
		reply, _, err = tcp.ExchangeContext(ctx, msg, r.server)
		if err != nil {
			return nil, fmt.Errorf("tcp query %s %s against %s: %w", fqdn, recordType, r.server, err)
		}
	}
	if reply.Rcode == dns.RcodeNameError {
		return nil, nil
	}
	if reply.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("query %s %s: server returned %s", fqdn, recordType, dns.RcodeToString[reply.Rcode])
	}

	return answers(reply, queryType), nil
}

func wireType(recordType records.Type) (uint16, error) {
	switch recordType {
	case records.TypeA:
		return dns.TypeA, nil
	case records.TypeAAAA:
		return dns.TypeAAAA, nil
	case records.TypeCNAME:
		return dns.TypeCNAME, nil
	case records.TypeTXT:
		return dns.TypeTXT, nil
	case records.TypeMX:
		return dns.TypeMX, nil
	case records.TypeCAA:
		return dns.TypeCAA, nil
	default:
		return 0, fmt.Errorf("unsupported record type %q", recordType)
	}
}

// answers renders matching resource records in the same shape the planner
// uses for values, so findings compare like against like.
func answers(reply *dns.Msg, queryType uint16) []string {
	var out []string
	for _, rr := range reply.Answer {
		if rr.Header().Rrtype != queryType {
			continue
		}
		switch record := rr.(type) {
		case *dns.A:
			out = append(out, record.A.String())
		case *dns.AAAA:
			out = append(out, record.AAAA.String())
		case *dns.CNAME:
			out = append(out, strings.TrimSuffix(record.Target, "."))
		case *dns.TXT:
			out = append(out, strings.Join(record.Txt, ""))
		case *dns.MX:
			out = append(out, fmt.Sprintf("%d %s", record.Preference, strings.TrimSuffix(record.Mx, ".")))
		case *dns.CAA:
			if record.Tag == "issue" {
				out = append(out, record.Value)
			} else {
				out = append(out, fmt.Sprintf("%s %s", record.Tag, record.Value))
			}
		}
	}
	return out
}
