// Package dataset renders phylogenetic tree annotations as iTOL dataset
// files.
//
// Every supported kind has a schema: an ordered list of typed fields, an
// optional tail and, for multi-value kinds, a repeated tail. Records are
// validated against that schema before any text is produced, so a malformed
// record never reaches disk or the network.
//
// # Output Layout
//
// A dataset file has the shape
//
//	DATASET_PIECHART
//	SEPARATOR COMMA
//	DATASET_LABEL,pie
//	COLOR,#ff0000
//	FIELD_COLORS,#ff0000,#00ff00
//	FIELD_LABELS,f1,f2
//	DATA
//	8518,-1,10,0.3,0.7
//
// The header line names the kind, the SEPARATOR line fixes the cell
// delimiter, setting lines follow, and DATA starts one line per record in
// the order given.
//
// # Example Usage
//
//	records := []dataset.Record{
//	    dataset.Color{Selector: "8518", Target: dataset.KindLabel, Color: "#0000ff"}.Record(),
//	}
//	text, err := dataset.Format(dataset.KindLabel, records, dataset.Options{})
//
//	path, err := dataset.WriteFile(ctx, "labels", dataset.KindLabel, records, dataset.Options{})
//	// path == "labels.txt"
package dataset
