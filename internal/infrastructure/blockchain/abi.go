package blockchain

// reviewContractABI covers the single method and event this service touches
// on the Ethos review contract.
const reviewContractABI = `[
  {
    "type": "function",
    "name": "addReview",
    "stateMutability": "payable",
    "inputs": [
      {"name": "score", "type": "uint8"},
      {"name": "subject", "type": "address"},
      {"name": "paymentToken", "type": "address"},
      {"name": "comment", "type": "string"},
      {"name": "metadata", "type": "string"},
      {
        "name": "attestationDetails",
        "type": "tuple",
        "components": [
          {"name": "account", "type": "string"},
          {"name": "service", "type": "string"}
        ]
      }
    ],
    "outputs": []
  },
  {
    "type": "event",
    "name": "ReviewCreated",
    "inputs": [
      {"name": "score", "type": "uint8", "indexed": false},
      {"name": "author", "type": "address", "indexed": true},
      {"name": "attestationHash", "type": "bytes32", "indexed": true},
      {"name": "subject", "type": "address", "indexed": true},
      {"name": "reviewId", "type": "uint256", "indexed": false},
      {"name": "profileId", "type": "uint256", "indexed": false}
    ]
  }
]`
