package composeresponse

import "carbon-compliance-workers/internal/models"

// Fallback answer used when the corpus returned nothing usable.
const fallbackAnswer = "I could not find specific regulatory guidance for your question in the current document corpus. " +
	"Please consult the official government guidance for your reporting obligations, or rephrase your question with more detail about your organization and reporting period."

const fallbackRecommendation = "Contact the compliance support team for a tailored answer to this question"

// Closing sentence appended to executive-style answers.
const executiveClosing = "We recommend verifying your current compliance position with professional advisers before acting on this summary."

// Advisory notes keyed by organization type. Appended to the answer when the
// question includes organization context.
var orgTypeAdvisories = map[string]string{
	models.OrgListedCompany: "As a listed company, you are required to report scope 1 and 2 emissions with an intensity ratio in your annual report, and TCFD-aligned disclosure also applies.",
	models.OrgLargeUnquoted: "As a large unquoted company, SECR requires you to report UK energy use and associated emissions in your directors' report.",
	models.OrgLLP:           "As a large LLP, SECR applies to you through an energy and carbon report attached to your annual accounts.",
	models.OrgSME:           "As an SME you are likely below the mandatory SECR thresholds, but voluntary reporting is encouraged and increasingly expected in supply chains.",
}

var categoryRecommendations = map[string][]string{
	models.CategoryEmissions: {
		"Establish a complete emissions inventory covering scopes 1, 2 and 3",
		"Set science-based reduction targets for your sector",
		"Review energy procurement for renewable supply options",
	},
	models.CategoryReporting: {
		"Align your disclosures with the SECR reporting framework",
		"Prepare an intensity ratio appropriate to your sector",
		"Have your emissions figures independently verified before publication",
	},
	models.CategoryCalculation: {
		"Use the current government conversion factors for all activity data",
		"Document your calculation methodology for auditability",
		"Keep activity data granular enough to recalculate under revised factors",
	},
	models.CategoryTrading: {
		"Confirm whether your installations fall within UK ETS scope",
		"Track allowance prices when planning compliance budgets",
		"Review free allocation eligibility for your sector",
	},
	models.CategoryCompliance: {
		"Map every regulation that applies to your organization profile",
		"Assign ownership for each compliance obligation",
		"Schedule periodic compliance reviews ahead of filing deadlines",
	},
	models.CategoryDeadline: {
		"Build a compliance calendar covering all reporting deadlines",
		"Allow time for data assurance before each submission date",
	},
}

var categoryNextSteps = map[string][]string{
	models.CategoryEmissions: {
		"Gather activity data for all emission sources",
		"Calculate your baseline footprint with current conversion factors",
		"Identify your largest reduction opportunities",
	},
	models.CategoryReporting: {
		"Confirm which reporting framework applies to your organization",
		"Collect the energy and emissions data the framework requires",
		"Draft the disclosure section for your annual report",
	},
	models.CategoryCalculation: {
		"Select the conversion factors matching your reporting year",
		"Apply the factors to your recorded activity data",
		"Sense-check results against your previous reporting period",
	},
	models.CategoryTrading: {
		"Verify your installation permits and monitoring plans",
		"Forecast your allowance requirements for the trading period",
	},
	models.CategoryCompliance: {
		"Run a gap analysis against the regulations that apply to you",
		"Prioritize remediation of high-priority gaps",
		"Document evidence of compliance for each obligation",
	},
	models.CategoryDeadline: {
		"List the submission dates for each applicable regulation",
		"Work backwards to set internal data-collection deadlines",
	},
	models.CategoryGeneral: {
		"Clarify which regulations apply to your organization",
		"Start with a baseline emissions assessment",
	},
}

var urgentNextSteps = []string{
	"Review your immediate compliance deadlines today",
	"Escalate to your compliance lead or legal counsel",
}

var relatedQuestionsByCategory = map[string][]string{
	models.CategoryEmissions: {
		"How do I calculate my scope 2 emissions using market-based factors?",
		"What is the difference between scope 1, 2 and 3 emissions?",
		"Which emission sources must be included under SECR?",
	},
	models.CategoryReporting: {
		"What must be included in a SECR energy and carbon report?",
		"When do TCFD disclosure requirements apply?",
		"What intensity ratio should I report for my sector?",
	},
	models.CategoryTrading: {
		"Which installations fall under the UK Emissions Trading Scheme?",
		"How are free allowances allocated under UK ETS?",
		"What happens if I exceed my allowance holdings?",
	},
}
