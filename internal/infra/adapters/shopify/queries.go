package shopify

// Line items and shipping lines are read from the first page only.
const queryOrderWithProductTags = `
query GetOrderWithProductTags($id: ID!) {
  order(id: $id) {
    id
    name
    tags
    note
    email
    customer { id }
    shippingAddress { ...AddressFields }
    billingAddress { ...AddressFields }
    totalShippingPriceSet { shopMoney { amount currencyCode } }
    totalDiscountsSet { shopMoney { amount currencyCode } }
    shippingLines(first: 10) {
      nodes {
        title
        originalPriceSet { shopMoney { amount currencyCode } }
      }
    }
    lineItems(first: 50) {
      nodes {
        id
        title
        quantity
        originalUnitPriceSet { shopMoney { amount currencyCode } }
        discountAllocations {
          allocatedAmountSet { shopMoney { amount currencyCode } }
        }
        variant { id }
        product { id tags }
      }
    }
  }
}

fragment AddressFields on MailingAddress {
  firstName
  lastName
  company
  address1
  address2
  city
  province
  provinceCode
  country
  countryCodeV2
  zip
  phone
}
`

const queryOrderByNumber = `
query GetOrderByNumber($query: String!) {
  orders(first: 1, query: $query) {
    nodes { id name }
  }
}
`

const mutationOrderCancel = `
mutation OrderCancel(
  $orderId: ID!
  $reason: OrderCancelReason!
  $restock: Boolean!
  $notifyCustomer: Boolean
  $staffNote: String
  $refundMethod: OrderCancelRefundMethodInput
) {
  orderCancel(
    orderId: $orderId
    reason: $reason
    restock: $restock
    notifyCustomer: $notifyCustomer
    staffNote: $staffNote
    refundMethod: $refundMethod
  ) {
    job { id }
    orderCancelUserErrors { field message }
  }
}
`

const mutationDraftOrderCreate = `
mutation DraftOrderCreate($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder { id name }
    userErrors { field message }
  }
}
`

// draftOrderComplete without paymentGatewayId or paymentPending marks the order paid.
const mutationDraftOrderComplete = `
mutation DraftOrderComplete($id: ID!) {
  draftOrderComplete(id: $id) {
    draftOrder {
      order { id name }
    }
    userErrors { field message }
  }
}
`

const mutationTagsAdd = `
mutation TagsAdd($id: ID!, $tags: [String!]!) {
  tagsAdd(id: $id, tags: $tags) {
    node { id }
    userErrors { field message }
  }
}
`

const mutationOrderUpdate = `
mutation OrderUpdate($input: OrderInput!) {
  orderUpdate(input: $input) {
    order { id }
    userErrors { field message }
  }
}
`
