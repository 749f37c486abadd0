package adjust

// Coefficient converts a source appraisal valuation into the brokerage
// valuation. Fitted offline by origin-constrained linear regression over
// 367 paired listings.
const Coefficient = 0.9119
