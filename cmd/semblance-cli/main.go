// Command semblance-cli compares two factors from a corpus file and
// prints which relations hold between them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/cognicore/semblance/pkg/semblance"
	"github.com/cognicore/semblance/pkg/semblance/config"
	"github.com/cognicore/semblance/pkg/semblance/store/sqlite"
	"github.com/cognicore/semblance/pkg/semblance/term"
)

func main() {
	var (
		corpusPath = flag.String("corpus", "", "Corpus YAML file (required)")
		leftName   = flag.String("left", "", "Name of the left factor or group (required)")
		rightName  = flag.String("right", "", "Name of the right factor or group (required)")
		dbPath     = flag.String("db", "", "SQLite path for persisting factors and results (optional)")
	)
	flag.Parse()

	if *corpusPath == "" {
		log.Fatal("--corpus required")
	}
	if *leftName == "" || *rightName == "" {
		log.Fatal("--left and --right required")
	}

	ctx := context.Background()

	corpus, err := config.LoadCorpus(*corpusPath)
	if err != nil {
		log.Fatal(err)
	}

	if isGroup(corpus, *leftName) || isGroup(corpus, *rightName) {
		if err := compareGroups(corpus, *leftName, *rightName); err != nil {
			log.Fatal(err)
		}
		return
	}

	left, err := corpus.Factor(*leftName)
	if err != nil {
		log.Fatal(err)
	}
	right, err := corpus.Factor(*rightName)
	if err != nil {
		log.Fatal(err)
	}

	var report semblance.Report
	if *dbPath != "" {
		report, err = compareAndPersist(ctx, *dbPath, *leftName, left, *rightName, right)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		report = semblance.Compare(left, right)
	}

	printReport(left, right, report)
}

func isGroup(corpus *config.Corpus, name string) bool {
	_, ok := corpus.Groups[name]
	return ok
}

func compareGroups(corpus *config.Corpus, leftName, rightName string) error {
	left, err := corpus.Group(leftName)
	if err != nil {
		return err
	}
	right, err := corpus.Group(rightName)
	if err != nil {
		return err
	}

	fmt.Println("Left: ", left)
	fmt.Println("Right:", right)
	fmt.Println()
	fmt.Printf("implies:      %t\n", left.Implies(right, nil))
	fmt.Printf("implied by:   %t\n", left.ImpliedBy(right, nil))
	fmt.Printf("means:        %t\n", left.Means(right, nil))
	fmt.Printf("contradicts:  %t\n", left.Contradicts(right, nil))
	fmt.Printf("consistent:   %t\n", left.ConsistentWith(right, nil))

	for expl := range left.ExplanationsImplication(right, nil) {
		fmt.Println()
		fmt.Println(expl)
		break
	}
	return nil
}

func compareAndPersist(ctx context.Context, dbPath, leftName string, left term.Term, rightName string, right term.Term) (semblance.Report, error) {
	db, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return semblance.Report{}, err
	}
	engine := semblance.New(semblance.Options{Store: db})
	defer engine.Close()

	leftRec, err := engine.AddFactor(ctx, leftName, left)
	if err != nil {
		return semblance.Report{}, err
	}
	rightRec, err := engine.AddFactor(ctx, rightName, right)
	if err != nil {
		return semblance.Report{}, err
	}
	return engine.CompareStored(ctx, leftRec.ID, rightRec.ID)
}

func printReport(left, right term.Term, report semblance.Report) {
	fmt.Println("Left: ", left)
	fmt.Println("Right:", right)
	fmt.Println()
	fmt.Printf("implies:      %t\n", report.Implies)
	fmt.Printf("implied by:   %t\n", report.ImpliedBy)
	fmt.Printf("means:        %t\n", report.Means)
	fmt.Printf("contradicts:  %t\n", report.Contradicts)
	fmt.Printf("consistent:   %t\n", report.Consistent)
	if report.Explanation != "" {
		fmt.Println()
		fmt.Println(report.Explanation)
	}
}
