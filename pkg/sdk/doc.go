// Package laptopmatch embeds the laptopmatch recommendation engine in a Go program.
//
// The client runs in-process over a laptop catalog loaded from a JSON file or
// supplied directly. No database or HTTP server is involved.
//
//	client, _ := laptopmatch.New(ctx, laptopmatch.WithCatalogFile("data/laptops.json"))
//	recs, _ := client.Recommend(ctx, laptopmatch.Criteria{
//	    Budget:      60000,
//	    Purpose:     laptopmatch.PurposeCoding,
//	    Portability: true,
//	})
//	for _, r := range recs {
//	    fmt.Println(r.Laptop.Name, r.Reason)
//	}
//
// Narrative features (Story, Compatibility) need a Generator supplied with WithGenerator.
package laptopmatch
