package report

import "strings"

// NamedQuery is one entry in the operator reference catalog.
type NamedQuery struct {
	Title  string
	Cypher string
}

// QueryCatalog is a fixed set of example Cypher queries against the
// opinion-graph schema, printable for operator reference.
var QueryCatalog = []NamedQuery{
	{"All nodes and relationships (capped at 400)", "MATCH (n)-[r]->(m) RETURN n, r, m LIMIT 400"},
	{"Node types in the store", "MATCH (n) RETURN DISTINCT labels(n) AS node_type, count(*) AS count"},
	{"The event and its relationships", "MATCH (e:Event)-[r]->(n) RETURN e, r, n LIMIT 50"},
	{"Negative comments", "MATCH (c:Comment) WHERE c.sentiment = 'negative' RETURN c LIMIT 20"},
	{"User demands", "MATCH (u:User)-[:RAISED]->(d:Demand) RETURN u.name, d.content LIMIT 20"},
	{"Opinion phase", "MATCH (e:Event)-[:IN_PHASE]->(p:OpinionPhase) RETURN e.content, p.phase, p.reason"},
	{"Comment network", "MATCH (u:User)-[:POSTED]->(c:Comment)-[:COMMENTS_ON]->(e:Event) RETURN u, c, e LIMIT 30"},
	{"Official replies", "MATCH (o:Organization)-[:POSTED]->(r:Reply) RETURN o.name, r.content, r.time LIMIT 20"},
	{"High-intensity sentiment", "MATCH (c:Comment) WHERE c.intensity >= 8 RETURN c.author, c.content, c.emotion, c.intensity"},
}

// FormatQueryCatalog renders the catalog for terminal output.
func FormatQueryCatalog() string {
	var b strings.Builder
	b.WriteString(divider + "\n")
	b.WriteString("Useful Cypher Queries\n")
	b.WriteString(divider + "\n")
	for _, q := range QueryCatalog {
		b.WriteString("\n// " + q.Title + "\n")
		b.WriteString(q.Cypher + "\n")
	}
	return b.String()
}
