/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chaincode

import "github.com/hyperledger-labs/peerweb/platform/common/services/logging"

var logger = logging.MustGetLogger("peerweb.chaincode")
