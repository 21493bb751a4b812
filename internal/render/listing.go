package render

import (
	"github.com/OpenVoiceOS/ovos-cli-client/internal/state"
)

const (
	listingTop        = 2
	listingColumnGap  = 2
	listingMinColumn  = 20
	listingTextBottom = 5
)

type placed struct {
	x, y int
	item state.ListingItem
}

// listingPages lays a listing out on a width x height screen.
func listingPages(l *state.Listing, width, height int) [][]placed {
	if l == nil {
		return nil
	}
	if l.Kind == state.ListingText {
		return textPages(l.Items, height)
	}
	return columnPages(l.Items, width, height)
}

// columnPages flows items down each column and then across, starting a new
// page once a column would begin in the last listingMinColumn cells.
func columnPages(items []state.ListingItem, width, height int) [][]placed {
	bottom := max(height-2, listingTop+1)
	var (
		pages    [][]placed
		page     []placed
		row      = listingTop
		column   = 0
		colWidth = 0
	)
	for _, it := range items {
		page = append(page, placed{x: column, y: row, item: it})
		colWidth = max(colWidth, len([]rune(it.Text))+it.Indent)
		row++
		if row < bottom {
			continue
		}
		row = listingTop
		column += colWidth + listingColumnGap + 2
		colWidth = 0
		if column > width-listingMinColumn {
			pages = append(pages, page)
			page = nil
			column = 0
		}
	}
	if len(page) > 0 || len(pages) == 0 {
		pages = append(pages, page)
	}
	return pages
}

func textPages(items []state.ListingItem, height int) [][]placed {
	bottom := max(height-listingTextBottom, listingTop+1)
	var (
		pages [][]placed
		page  []placed
		row   = listingTop
	)
	for _, it := range items {
		page = append(page, placed{x: 0, y: row, item: it})
		row++
		if row >= bottom {
			pages = append(pages, page)
			page = nil
			row = listingTop
		}
	}
	if len(page) > 0 || len(pages) == 0 {
		pages = append(pages, page)
	}
	return pages
}

// ListingPages is the number of pages l needs on a width x height screen.
func ListingPages(l *state.Listing, width, height int) int {
	return max(len(listingPages(l, width, height)), 1)
}

func itemClass(it state.ListingItem) Class {
	switch {
	case it.Emphasis:
		return ClassHeading
	case it.Dim:
		return ClassInactive
	default:
		return ClassActive
	}
}

func drawListing(c *Canvas, l *state.Listing) {
	if l == nil {
		return
	}
	pages := listingPages(l, c.Width(), c.Height())
	page := min(max(l.Page, 0), len(pages)-1)

	c.Draw(center(c.Width(), 25), 0, l.Title, ClassCommand)
	c.Fill(1, 1, '=', ClassCommand)
	if c.Width() > 1 {
		c.Draw(c.Width()-1, 1, " ", ClassPlain)
	}

	for _, p := range pages[page] {
		x := p.x + p.item.Indent + 2
		c.Draw(x, p.y, p.item.Text, itemClass(p.item))
	}

	prompt := "Press any key to return"
	if page < len(pages)-1 {
		prompt = "Press any key to continue"
	}
	c.Draw(center(c.Width(), 23), c.Height()-1, prompt, ClassHeading)
}
