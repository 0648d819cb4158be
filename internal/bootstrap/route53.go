package bootstrap

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	chordconfig "chordring/internal/config"
	"chordring/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
)

// Route53Bootstrap discovers ring peers via SRV records published
// under a hosted zone, so a node can join without an operator having
// to hand it a known peer address out of band.
type Route53Bootstrap struct {
	client       *route53.Client
	hostedZoneID string
	domainSuffix string
	ttl          int64
}

// NewRoute53Bootstrap builds a Route53Bootstrap from the default AWS
// credential chain plus cfg.Region, if set.
func NewRoute53Bootstrap(cfg chordconfig.Route53Config) (*Route53Bootstrap, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := newClient(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30
	}
	return &Route53Bootstrap{
		client:       client,
		hostedZoneID: cfg.HostedZoneID,
		domainSuffix: strings.TrimSuffix(cfg.DomainName, "."),
		ttl:          ttl,
	}, nil
}

func newClient(ctx context.Context, region string) (*route53.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: loading AWS config: %w", err)
	}
	return route53.NewFromConfig(awsCfg), nil
}

// Discover lists every SRV record under the configured domain suffix
// and resolves each target to its current IPs.
func (r *Route53Bootstrap) Discover(ctx context.Context) ([]string, error) {
	var endpoints []string

	input := &route53.ListResourceRecordSetsInput{HostedZoneId: aws.String(r.hostedZoneID)}
	paginator := route53.NewListResourceRecordSetsPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: listing SRV records: %w", err)
		}
		for _, rrset := range page.ResourceRecordSets {
			if rrset.Type != types.RRTypeSrv {
				continue
			}
			if !strings.HasSuffix(strings.TrimSuffix(*rrset.Name, "."), r.domainSuffix) {
				continue
			}
			for _, rr := range rrset.ResourceRecords {
				var prio, weight, port int
				var target string
				if _, err := fmt.Sscanf(*rr.Value, "%d %d %d %s", &prio, &weight, &port, &target); err != nil {
					continue
				}
				target = strings.TrimSuffix(target, ".")
				ips, err := net.LookupHost(target)
				if err != nil {
					continue
				}
				for _, ip := range ips {
					endpoints = append(endpoints, fmt.Sprintf("%s:%d", ip, port))
				}
			}
		}
	}
	return endpoints, nil
}

// Register publishes an SRV record for node keyed by its ring
// identifier, so peers discovering the zone can find it.
func (r *Route53Bootstrap) Register(ctx context.Context, node *domain.Node) error {
	return r.change(ctx, types.ChangeActionUpsert, node)
}

// Deregister removes node's SRV record from the zone.
func (r *Route53Bootstrap) Deregister(ctx context.Context, node *domain.Node) error {
	return r.change(ctx, types.ChangeActionDelete, node)
}

func (r *Route53Bootstrap) change(ctx context.Context, action types.ChangeAction, node *domain.Node) error {
	host, port, err := net.SplitHostPort(node.Addr)
	if err != nil {
		return fmt.Errorf("bootstrap: splitting node address %q: %w", node.Addr, err)
	}
	recordName := fmt.Sprintf("%s.%s.", node.ID.ToHexString(false), r.domainSuffix)

	input := &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(r.hostedZoneID),
		ChangeBatch: &types.ChangeBatch{
			Changes: []types.Change{
				{
					Action: action,
					ResourceRecordSet: &types.ResourceRecordSet{
						Name: aws.String(recordName),
						Type: types.RRTypeSrv,
						TTL:  aws.Int64(r.ttl),
						ResourceRecords: []types.ResourceRecord{
							{Value: aws.String(fmt.Sprintf("0 0 %s %s.", port, host))},
						},
					},
				},
			},
		},
	}
	_, err = r.client.ChangeResourceRecordSets(ctx, input)
	return err
}
