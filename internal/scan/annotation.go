package scan

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/a-peyrard/modcheck"
	"github.com/rs/zerolog"
)

const (
	providerAnnotationTag = "@provider"
	injectAnnotationTag   = "@inject"
	paramAnnotationTag    = "@param"
)

var (
	knownProperties = []string{"named", "kind", "as"}

	propertiesRegexp = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|([\w.,]+))`)
)

type ProviderAnnotation struct {
	logger      *zerolog.Logger
	description string
	properties  map[string]string
}

func (p ProviderAnnotation) Named() (named string, found bool) {
	named, found = p.properties["named"]
	return named, found
}

// Kind defaults to single, an unknown kind is reported and ignored.
func (p ProviderAnnotation) Kind() modcheck.Kind {
	raw, found := p.properties["kind"]
	if !found {
		return modcheck.KindSingle
	}
	switch strings.ToLower(raw) {
	case "single", "singleton":
		return modcheck.KindSingle
	case "factory":
		return modcheck.KindFactory
	default:
		p.logger.Warn().Msgf("Unknown kind %q, falling back to single", raw)
		return modcheck.KindSingle
	}
}

// As lists the additional types the provider is bound as, comma separated.
func (p ProviderAnnotation) As() []string {
	raw, found := p.properties["as"]
	if !found {
		return nil
	}
	var as []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			as = append(as, name)
		}
	}
	return as
}

func (p ProviderAnnotation) UnknownProperties() []string {
	var unknown []string
	for key := range p.properties {
		if !contains(knownProperties, key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

type ParameterAnnotation struct {
	logger     *zerolog.Logger
	tag        string
	properties map[string]string
}

func (a ParameterAnnotation) String() string {
	return fmt.Sprintf("ParameterAnnotation(%s %v)", a.tag, a.properties)
}

// IsParam reports a parameter given at resolution time rather than looked up.
func (a ParameterAnnotation) IsParam() bool {
	return a.tag == paramAnnotationTag
}

func (a ParameterAnnotation) Named() (named string, found bool) {
	named, found = a.properties["named"]
	return named, found
}

func (a ParameterAnnotation) Optional() bool {
	raw, found := a.properties["optional"]
	if !found {
		return false
	}
	optional, err := strconv.ParseBool(raw)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Error parsing optional, not a correct bool")
		return false
	}
	return optional
}

func parseProviderAnnotation(logger *zerolog.Logger, docText string) ProviderAnnotation {
	lines := strings.Split(docText, "\n")

	var descriptionLines []string
	var providerLine string

	// separate @provider line from description
	for _, line := range lines {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, providerAnnotationTag) {
			providerLine = line
		} else if line != "" && !strings.HasPrefix(line, "@") {
			descriptionLines = append(descriptionLines, line)
		}
	}

	return ProviderAnnotation{
		logger:      logger,
		description: strings.TrimSpace(strings.Join(descriptionLines, "\n")),
		properties:  parseProperties(providerLine, providerAnnotationTag),
	}
}

func parseParameterAnnotation(logger *zerolog.Logger, comment string) ParameterAnnotation {
	content := strings.TrimPrefix(comment, "//")
	content = strings.TrimSpace(content)

	for _, tag := range []string{injectAnnotationTag, paramAnnotationTag} {
		if strings.HasPrefix(content, tag) {
			return ParameterAnnotation{
				logger:     logger,
				tag:        tag,
				properties: parseProperties(content, tag),
			}
		}
	}
	return ParameterAnnotation{logger: logger, properties: make(map[string]string)}
}

func parseProperties(line string, tag string) map[string]string {
	properties := make(map[string]string)

	if line == "" {
		return properties
	}

	content := strings.TrimPrefix(line, tag)
	content = strings.TrimSpace(content)

	if content == "" {
		return properties
	}

	matches := propertiesRegexp.FindAllStringSubmatch(content, -1)

	for _, match := range matches {
		key := match[1]
		// match[2] is quoted value, match[3] is unquoted value
		value := match[2]
		if value == "" {
			value = match[3]
		}
		properties[key] = value
	}

	return properties
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
