/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	node2 "github.com/hyperledger-labs/peerweb/node"
)

// starts here
func main() {
	node2.New().Execute()
}
