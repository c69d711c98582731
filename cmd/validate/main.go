package main

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/jwebster45206/aftermath/pkg/decision"
	"github.com/jwebster45206/aftermath/pkg/state"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <decisions.json|decisions.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &CatalogValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	for _, w := range validator.warnings {
		fmt.Println("warning:" + w)
	}
	fmt.Println("Catalog file is valid!")
}

type CatalogValidator struct {
	errors   []string
	warnings []string
}

func (v *CatalogValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	format, err := decision.FormatForPath(filename)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	return v.validateData(data, format, filename)
}

func (v *CatalogValidator) validateData(data []byte, format decision.Format, filename string) error {
	v.errors = nil
	v.warnings = nil

	decisions, err := decision.Parse(data, format, true)
	if err != nil {
		return fmt.Errorf("file %s failed strict unmarshaling: %w", filename, err)
	}

	v.validateCatalog(decisions)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	if _, err := decision.NewCatalog(decisions); err != nil {
		return fmt.Errorf("file %s is not a usable catalog: %w", filename, err)
	}

	return nil
}

func (v *CatalogValidator) validateCatalog(decisions []decision.Decision) {
	if len(decisions) == 0 {
		v.addError("catalog contains no decisions")
		return
	}

	seen := make(map[string]bool)
	for i, d := range decisions {
		label := fmt.Sprintf("decision %d (%s)", i, d.ID)

		if d.ID == "" {
			v.addError(fmt.Sprintf("decision %d has no id", i))
		} else {
			v.validateIDFormat("decision id", d.ID)
			if seen[d.ID] {
				v.addError(fmt.Sprintf("duplicate decision id '%s'", d.ID))
			}
			seen[d.ID] = true
		}

		if strings.TrimSpace(d.Title) == "" {
			v.addError(label + " has no title")
		}
		if strings.TrimSpace(d.Kicker) == "" {
			v.addWarning(label + " has no kicker")
		}

		for _, tag := range d.Tags {
			v.validateIDFormat(label+" tag", tag)
		}

		if len(d.Choices) == 0 {
			v.addError(label + " has no choices")
		}
		for j, c := range d.Choices {
			v.validateChoice(&c, fmt.Sprintf("%s choice %d", label, j))
		}
	}
}

func (v *CatalogValidator) validateChoice(c *decision.Choice, label string) {
	if strings.TrimSpace(c.Text) == "" {
		v.addError(label + " has no text")
	}

	for name := range c.Effects {
		if !slices.Contains(state.CanonicalVars, name) {
			v.addWarning(fmt.Sprintf("%s has effect on unknown variable '%s'; it will be stored but never read", label, name))
		}
	}

	for _, tier := range decision.Tiers {
		if strings.TrimSpace(c.Consequences[tier]) == "" {
			v.addError(fmt.Sprintf("%s has no '%s' consequence", label, tier))
		}
	}
	for tier := range c.Consequences {
		if !slices.Contains(decision.Tiers, tier) {
			v.addError(fmt.Sprintf("%s has unknown consequence tier '%s'", label, tier))
		}
	}
}

func (v *CatalogValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *CatalogValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *CatalogValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
