package main

import (
	"os"

	"github.com/reddit/posixmq.go/cmd/lib/mqsend"
)

func main() {
	os.Exit(mqsend.Run())
}
