package scraper

import (
	"fmt"
	"strings"
)

const testOrigin = "http://example.test"

const nameClass = "_p13n-zg-list-grid-desktop_truncationStyles_p13n-sc-css-line-clamp-1__1Fn1y"

func landingHTML() string {
	return `<html><body>
<ul>
  <li><a href="/Best-Sellers-Electronics/zgbs/electronics">Electronics</a></li>
  <li><a href="/Best-Sellers-Garden/zgbs/garden"> Garden </a></li>
  <li><a href="/other">Other</a></li>
</ul>
</body></html>`
}

func categoryHTML(n int) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("Product %d", i)
		fmt.Fprintf(&b, `<div id="gridItemRoot">
  <img alt="%s" src="https://img.test/%d.jpg">
  <div class="%s">%s</div>
  <div class="a-icon-row"><span class="a-icon-alt">4.%d out of 5 stars</span><span class="a-size-small">1,23%d</span></div>
  <span class="p13n-sc-price">$%d.99</span>
</div>`, name, i, nameClass, name, i%10, i%10, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}
