package pages

import "fmt"

// Strategy names an element lookup mechanism.
type Strategy string

const (
	ByCSS   Strategy = "css"
	ByXPath Strategy = "xpath"
)

// Locator is a static (strategy, value) pair identifying zero or more
// elements on the current page. Locators are configuration; they are never
// mutated after construction.
type Locator struct {
	Strategy Strategy
	Value    string
}

// CSS builds a CSS-selector locator.
func CSS(value string) Locator {
	return Locator{Strategy: ByCSS, Value: value}
}

// XPath builds an XPath locator.
func XPath(value string) Locator {
	return Locator{Strategy: ByXPath, Value: value}
}

// Selector renders the locator in the driver's selector-engine syntax.
func (l Locator) Selector() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}

func (l Locator) String() string {
	return l.Selector()
}
