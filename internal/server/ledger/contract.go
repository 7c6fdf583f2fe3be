package ledger

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// contractABIJSON is the deployed certificate contract's interface, trimmed
// to the surface this service consumes.
const contractABIJSON = `[
  {"inputs":[{"internalType":"address","name":"","type":"address"}],"name":"issuers","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"address","name":"","type":"address"}],"name":"universityBalance","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"gasLimitPerCertificate","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"gasPriceForCertificate","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"bytes32","name":"","type":"bytes32"}],"name":"bulkUsed","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"string","name":"certId","type":"string"}],"name":"verifyCertificate","outputs":[{"internalType":"bool","name":"exists","type":"bool"},{"internalType":"string","name":"studentName","type":"string"},{"internalType":"string","name":"courseName","type":"string"},{"internalType":"string","name":"issueDate","type":"string"},{"internalType":"string","name":"issuerName","type":"string"},{"internalType":"address","name":"issuer","type":"address"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"string","name":"certId","type":"string"},{"internalType":"string","name":"studentName","type":"string"},{"internalType":"string","name":"courseName","type":"string"},{"internalType":"string","name":"issueDate","type":"string"},{"internalType":"string","name":"issuerName","type":"string"},{"internalType":"address","name":"authorizedSigner","type":"address"},{"internalType":"bytes32","name":"messageHash","type":"bytes32"},{"internalType":"bytes","name":"signature","type":"bytes"}],"name":"addCertificateWithSignature","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"internalType":"string","name":"certId","type":"string"},{"internalType":"string","name":"studentName","type":"string"},{"internalType":"string","name":"courseName","type":"string"},{"internalType":"string","name":"issueDate","type":"string"},{"internalType":"string","name":"issuerName","type":"string"},{"internalType":"address","name":"authorizedSigner","type":"address"},{"internalType":"bytes32","name":"authHash","type":"bytes32"},{"internalType":"bytes","name":"authSignature","type":"bytes"},{"internalType":"uint256","name":"batchId","type":"uint256"},{"internalType":"uint256","name":"certificateCount","type":"uint256"},{"internalType":"uint256","name":"expiry","type":"uint256"}],"name":"addCertificateWithAuth","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

func parseContractABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(contractABIJSON))
}
