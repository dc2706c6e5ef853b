package model

// Default report section sizes.
const (
	DefaultTopStatusIPs        = 30
	DefaultTopEndpointIPs      = 10
	DefaultEndpointsPerIP      = 10
	DefaultTopSuspiciousIPs    = 10
	DefaultPrincipalSuspects   = 5
	DefaultEndpointsPerSuspect = 20
)

// ReportLimits holds the top-N truncation applied to each report section.
type ReportLimits struct {
	TopStatusIPs        int
	TopEndpointIPs      int
	EndpointsPerIP      int
	TopSuspiciousIPs    int
	PrincipalSuspects   int
	EndpointsPerSuspect int
}

// DefaultReportLimits returns the section sizes used when nothing is configured.
func DefaultReportLimits() ReportLimits {
	return ReportLimits{
		TopStatusIPs:        DefaultTopStatusIPs,
		TopEndpointIPs:      DefaultTopEndpointIPs,
		EndpointsPerIP:      DefaultEndpointsPerIP,
		TopSuspiciousIPs:    DefaultTopSuspiciousIPs,
		PrincipalSuspects:   DefaultPrincipalSuspects,
		EndpointsPerSuspect: DefaultEndpointsPerSuspect,
	}
}
