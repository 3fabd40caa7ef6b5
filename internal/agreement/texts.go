package agreement

// DefaultCodeOfConduct is used when an invite carries no custom code of conduct.
const DefaultCodeOfConduct = `All advertisements and materials involved in or related to the sale of a product or service, or which contain or refer to a name, trade or service mark, products, services, etc., must be approved in writing by Lumino and in advance of their use.

The use of the Internet for marketing products and services is subject to the same policies and procedures applicable to written or printed material.

EXPERIENCED PARTNERS

Lumino recommends that you seek legal advice pertaining to the operation of any ADAD equipment. This document is not intended as a replacement for sound legal advice, and the use of ADAD equipment is entirely your decision and responsibility.

AUTOMATED DIALER AND ANNOUNCING DEVICE (ADAD) COMPLIANCE

In the following states, ADAD delivered business-to-business sales calls are extremely forbidden: Arkansas (criminal), Maryland (criminal), Mississippi (civil), North Carolina (civil), Washington (civil), and Wyoming (criminal).

CONFIDENTIALITY

In your role as a Lumino Partner, you will possess confidential information about your Merchant and Lumino. A breach of confidentiality can have serious consequences.

VIOLATION OF LUMINO POLICY

The purpose of policies and procedures is to ensure Lumino's ability to provide the highest quality products and services to its Merchants and Partners.`

// DefaultTerms is used when an invite carries no custom terms.
const DefaultTerms = `PARTNER AGREEMENT

This Partner Agreement ("Agreement") is entered into as of the date of execution between Lumino Technologies, LLC ("Company") and the Partner identified in the application ("Partner").

1. APPOINTMENT AND SCOPE
Company appoints Partner as a non-exclusive independent contractor to promote and refer potential clients for Company's payment processing and financial services as detailed in Schedule A.

2. COMPENSATION
Partner shall receive compensation according to the fee schedule outlined in Schedule A.

3. TERM AND TERMINATION
This Agreement shall commence on the date of execution and continue until terminated by either party with thirty (30) days written notice.

4. INDEPENDENT CONTRACTOR STATUS
Partner is an independent contractor and not an employee, agent, or legal representative of Company.

5. CONFIDENTIALITY
Partner agrees to maintain the confidentiality of all proprietary information.

6. GOVERNING LAW
This Agreement shall be governed by and construed in accordance with the laws of the State of Delaware.`
