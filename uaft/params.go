package uaft

import "regexp"

// ConnParams addresses one device/app/session. Every field is optional.
// Serial and IP are mutually exclusive addressing mechanisms; Serial wins
// when both are set. Callers assemble a fresh value for each operation.
type ConnParams struct {
	Serial  string `json:"serial,omitempty"`
	IP      string `json:"ip,omitempty"`
	Port    string `json:"port,omitempty"`
	Package string `json:"package,omitempty"`
	Token   string `json:"token,omitempty"`
}

// BaseArgs renders the connection flags in the fixed order the tool
// expects: addressing, then port, package, token.
func (p ConnParams) BaseArgs() []string {
	var args []string
	if p.Serial != "" {
		args = append(args, "-s", p.Serial)
	} else if p.IP != "" {
		args = append(args, "-ip", p.IP)
	}
	if p.Port != "" {
		args = append(args, "-t", p.Port)
	}
	if p.Package != "" {
		args = append(args, "-p", p.Package)
	}
	if p.Token != "" {
		args = append(args, "-k", p.Token)
	}
	return args
}

var packagePattern = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)+$`)

// ValidPackage reports whether pkg has the Android package shape: two or
// more dot-separated segments of letters, digits or underscores. Colons,
// spaces and single-segment names are rejected.
func ValidPackage(pkg string) bool {
	return packagePattern.MatchString(pkg)
}
