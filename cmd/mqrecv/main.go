package main

import (
	"os"

	"github.com/reddit/posixmq.go/cmd/lib/mqrecv"
)

func main() {
	os.Exit(mqrecv.Run())
}
