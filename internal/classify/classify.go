// Package classify scores a class as a JavaBean or a business class from
// its package name, annotations and member shape.
//
// Both scores are additive and start at zero. The result keeps the scores
// next to the final tag so callers can explain a decision.
package classify

import (
	"strings"

	"github.com/beanwright/jbgen/internal/bean"
	"github.com/beanwright/jbgen/internal/model"
)

// Tag is the classification outcome.
type Tag string

const (
	JavaBean      Tag = "JAVA_BEAN"
	BusinessClass Tag = "BUSINESS_CLASS"
	Unknown       Tag = "UNKNOWN"
)

// Result is a classification with the scores that produced it.
type Result struct {
	Tag           Tag `json:"tag" yaml:"tag"`
	BeanScore     int `json:"bean_score" yaml:"bean_score"`
	BusinessScore int `json:"business_score" yaml:"business_score"`
	// Shape counters feeding the scores and the tie-break.
	PrivateFields   int `json:"private_fields" yaml:"private_fields"`
	Accessors       int `json:"accessors" yaml:"accessors"`
	BusinessMethods int `json:"business_methods" yaml:"business_methods"`
}

var (
	beanPackageTokens = []string{"entity", "model", "bean", "pojo", "dto", "vo", "domain", "data"}

	businessPackageTokens = []string{
		"service", "controller", "manager", "handler", "processor", "component",
		"util", "helper", "factory", "builder", "config", "configuration",
	}

	beanAnnotations = map[string]bool{
		"Entity": true, "Table": true, "Document": true, "Data": true,
		"Getter": true, "Setter": true, "ToString": true, "EqualsAndHashCode": true,
		"NoArgsConstructor": true, "AllArgsConstructor": true,
		"JsonIgnoreProperties": true, "JsonProperty": true,
		"XmlRootElement": true, "XmlElement": true,
	}

	businessAnnotations = map[string]bool{
		"Service": true, "Controller": true, "RestController": true, "Component": true,
		"Repository": true, "Configuration": true, "Bean": true, "Autowired": true,
		"Inject": true, "Resource": true, "RequestMapping": true, "GetMapping": true,
		"PostMapping": true, "PutMapping": true, "DeleteMapping": true,
	}
)

// Classify scores c. It is a pure function of the class snapshot.
func Classify(c *model.Class) Result {
	var r Result
	if c == nil {
		r.Tag = Unknown
		return r
	}

	pkg := strings.ToLower(c.Package)
	if containsAny(pkg, beanPackageTokens) {
		r.BeanScore += 3
	}
	if containsAny(pkg, businessPackageTokens) {
		r.BusinessScore += 3
	}

	for _, a := range c.Annotations {
		if beanAnnotations[a] {
			r.BeanScore += 2
		}
		if businessAnnotations[a] {
			r.BusinessScore += 2
		}
	}

	hasLogger := false
	for _, f := range c.Fields {
		if IsLoggerType(f.Type) {
			r.BusinessScore++
			hasLogger = true
		}
		if f.IsPrivate() {
			r.PrivateFields++
		}
	}
	// A logger field also earns a one-off bonus on top of the per-field
	// count above.
	if hasLogger {
		r.BusinessScore++
	}

	for _, m := range c.Methods {
		kind, _ := bean.Kind(m, c.Fields)
		switch kind {
		case model.KindGetter, model.KindSetter:
			r.Accessors++
		case model.KindBusiness:
			r.BusinessMethods++
		}
	}

	if r.PrivateFields > 0 && r.Accessors >= r.PrivateFields {
		r.BeanScore += 2
	}
	if r.BusinessMethods > 2 {
		r.BusinessScore += 2
	}

	if super := c.Superclass; super != "" {
		if strings.Contains(super, "Entity") || strings.Contains(super, "Model") {
			r.BeanScore++
		}
		if strings.Contains(super, "Service") || strings.Contains(super, "Controller") {
			r.BusinessScore++
		}
	}

	serializable, serviceLike := false, false
	for _, iface := range c.Interfaces {
		if model.SimpleName(iface) == "Serializable" {
			serializable = true
		}
		if strings.Contains(iface, "Service") || strings.Contains(iface, "Repository") {
			serviceLike = true
		}
	}
	if serializable {
		r.BeanScore++
	}
	if serviceLike {
		r.BusinessScore++
	}

	switch {
	case r.BeanScore > r.BusinessScore:
		r.Tag = JavaBean
	case r.BusinessScore > r.BeanScore:
		r.Tag = BusinessClass
	case r.PrivateFields > 0 && r.Accessors > 0 && r.BusinessMethods <= 1:
		r.Tag = JavaBean
	default:
		r.Tag = BusinessClass
	}
	return r
}

// IsLoggerType reports whether a declared type names a logger. Any type
// containing "Log" qualifies, which covers Logger, Log and LogWriter alike.
func IsLoggerType(t string) bool {
	return strings.Contains(t, "Log")
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}
