package models

import "strings"

// PubMedArticle is simplified article metadata extracted from PubMed records.
// Scientific records are routinely missing fields; everything beyond the PMID
// is optional.
type PubMedArticle struct {
	PMID     string   `json:"pmid"`
	Title    string   `json:"title,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
	Authors  []string `json:"authors,omitempty"`
	Journal  string   `json:"journal,omitempty"`
	PubDate  string   `json:"pub_date,omitempty"`
	DOI      string   `json:"doi,omitempty"`
	PMCID    string   `json:"pmc_id,omitempty"`
}

// Citation builds a simple citation string from whatever fields are present.
func (a PubMedArticle) Citation() string {
	var parts []string
	if len(a.Authors) > 0 {
		author := a.Authors[0]
		if len(a.Authors) > 1 {
			author += " et al."
		}
		parts = append(parts, author)
	}
	if a.PubDate != "" {
		parts = append(parts, "("+a.PubDate+")")
	}
	if a.Title != "" {
		parts = append(parts, a.Title)
	}
	if a.Journal != "" {
		parts = append(parts, a.Journal)
	}
	if len(parts) == 0 {
		return "PMID: " + a.PMID
	}
	return strings.Join(parts, " ")
}
