// Command gensecret prints the two signing secrets the server requires.
// ACCESS_SECRET_KEY and REFRESH_SECRET_KEY must both be set and must
// differ, so a fresh value is generated for each. The output is ready to
// paste into an .env file.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

const SecretKeyBytesLen = 32

func main() {
	for _, name := range []string{"ACCESS_SECRET_KEY", "REFRESH_SECRET_KEY"} {
		b := make([]byte, SecretKeyBytesLen)

		_, err := rand.Read(b)
		if err != nil {
			fmt.Printf("error while generating %s: %v", name, err)
			os.Exit(1)
		}

		fmt.Printf("%s=%s\n", name, hex.EncodeToString(b))
	}
}
